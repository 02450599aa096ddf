package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a full content directory and returns the assembled Catalog.
//
// Layout: dir/items/*.yaml and dir/monsters/*.yaml hold one template per
// file; dir/roles/*.yaml hold one role per file; dir/drops.yaml and
// dir/gacha.yaml hold lists. drops.yaml and gacha.yaml are optional.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Catalog or the first encountered error;
// on error the partial result is discarded.
func Load(dir string) (*Catalog, error) {
	items, err := LoadItemTemplates(filepath.Join(dir, "items"))
	if err != nil {
		return nil, err
	}
	monsters, err := LoadMonsterTemplates(filepath.Join(dir, "monsters"))
	if err != nil {
		return nil, err
	}
	roles, err := LoadRoles(filepath.Join(dir, "roles"))
	if err != nil {
		return nil, err
	}
	drops, err := LoadDropTable(filepath.Join(dir, "drops.yaml"))
	if err != nil {
		return nil, err
	}
	gacha, err := LoadGachaTable(filepath.Join(dir, "gacha.yaml"))
	if err != nil {
		return nil, err
	}
	return New(items, monsters, roles, drops, gacha)
}

// LoadItemTemplates reads all *.yaml files in dir as item templates.
//
// Postcondition: Returns all templates or an error on the first parse or
// validate failure.
func LoadItemTemplates(dir string) ([]*ItemTemplate, error) {
	var items []*ItemTemplate
	err := eachYAMLFile(dir, func(path string, data []byte) error {
		var t ItemTemplate
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parsing item template %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		items = append(items, &t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LoadMonsterTemplates reads all *.yaml files in dir as monster templates.
func LoadMonsterTemplates(dir string) ([]*MonsterTemplate, error) {
	var monsters []*MonsterTemplate
	err := eachYAMLFile(dir, func(path string, data []byte) error {
		var t MonsterTemplate
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parsing monster template %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		monsters = append(monsters, &t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return monsters, nil
}

// LoadRoles reads all *.yaml files in dir as role base stats.
func LoadRoles(dir string) ([]RoleStats, error) {
	var roles []RoleStats
	err := eachYAMLFile(dir, func(path string, data []byte) error {
		var r RoleStats
		if err := yaml.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("parsing role %q: %w", path, err)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		roles = append(roles, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// LoadDropTable reads the drop table list from path. A missing file is an
// empty table, not an error.
func LoadDropTable(path string) ([]DropEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading drop table %q: %w", path, err)
	}
	var drops []DropEntry
	if err := yaml.Unmarshal(data, &drops); err != nil {
		return nil, fmt.Errorf("parsing drop table %q: %w", path, err)
	}
	for i := range drops {
		if err := drops[i].Validate(); err != nil {
			return nil, fmt.Errorf("drop table %q entry %d: %w", path, i, err)
		}
	}
	return drops, nil
}

// LoadGachaTable reads the gacha pool list from path. A missing file is an
// empty pool, not an error.
func LoadGachaTable(path string) ([]GachaEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading gacha table %q: %w", path, err)
	}
	var gacha []GachaEntry
	if err := yaml.Unmarshal(data, &gacha); err != nil {
		return nil, fmt.Errorf("parsing gacha table %q: %w", path, err)
	}
	for i := range gacha {
		if err := gacha[i].Validate(); err != nil {
			return nil, fmt.Errorf("gacha table %q entry %d: %w", path, i, err)
		}
	}
	return gacha, nil
}

// eachYAMLFile calls fn for every *.yaml and *.yml file in dir, in directory
// order. A missing directory is treated as empty.
func eachYAMLFile(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
