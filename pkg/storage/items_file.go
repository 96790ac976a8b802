package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// ItemsFile is the on-disk layout accepted by the CLI. A bare list of items
// is accepted too.
type ItemsFile struct {
	Items []planning.WorkItem `yaml:"items"`
}

// LoadItemsFile reads work items from a YAML or JSON file. JSON parses as
// YAML, so one decoder serves both.
func LoadItemsFile(path string) ([]planning.WorkItem, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	return ParseItems(data)
}

// ParseItems decodes either `items: [...]` or a top-level list.
func ParseItems(data []byte) ([]planning.WorkItem, error) {
	var items []planning.WorkItem

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	case yaml.MappingNode:
		var f ItemsFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		items = f.Items
	default:
		return nil, fmt.Errorf("parse items: expected a list or an items mapping")
	}

	for i := range items {
		if err := normalizeItem(&items[i], i); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func normalizeItem(item *planning.WorkItem, index int) error {
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", index+1)
	}
	if item.Priority == "" {
		item.Priority = planning.DefaultItemPriority()
	} else if !item.Priority.IsValid() {
		return fmt.Errorf("item %s: %w", item.ID, &planning.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", item.Priority)})
	}
	if item.Status == "" {
		item.Status = planning.StatusPending
	} else if !item.Status.IsValid() {
		return fmt.Errorf("item %s: %w", item.ID, &planning.ValidationError{Field: "status", Message: fmt.Sprintf("unknown value %q", item.Status)})
	}
	return nil
}
