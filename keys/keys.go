// Package keys keeps clear keys in the system keyring, indexed by key-id.
package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/zalando/go-keyring"
)

const (
	service = constant.Mediabridge
	index   = "clear-key-ids"
)

// ErrNotFound is returned for unknown key-ids.
var ErrNotFound = errors.New("key not found")

func normalize(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", errors.New("empty key-id")
	}
	return id, nil
}

// Set stores the clear key of id.
func Set(id, key string) error {
	id, err := normalize(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key-id %s: empty key", id)
	}

	if err := keyring.Set(service, id, key); err != nil {
		return fmt.Errorf("store key %s: %w", id, err)
	}

	ids, err := List()
	if err != nil {
		return err
	}
	return saveIndex(lo.Uniq(append(ids, id)))
}

// Get returns the clear key of id.
func Get(id string) (string, error) {
	id, err := normalize(id)
	if err != nil {
		return "", err
	}

	key, err := keyring.Get(service, id)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return key, err
}

// Delete removes the clear key of id.
func Delete(id string) error {
	id, err := normalize(id)
	if err != nil {
		return err
	}

	if err := keyring.Delete(service, id); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return err
	}

	ids, err := List()
	if err != nil {
		return err
	}
	return saveIndex(lo.Without(ids, id))
}

// List returns the stored key-ids in order.
func List() ([]string, error) {
	raw, err := keyring.Get(service, index)
	if errors.Is(err, keyring.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode key index: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Lookup builds the clear key map for ids, failing on the first unknown id.
func Lookup(ids ...string) (map[string]string, error) {
	found := make(map[string]string, len(ids))
	for _, id := range ids {
		key, err := Get(id)
		if err != nil {
			return nil, err
		}
		found[strings.ToLower(strings.TrimSpace(id))] = key
	}
	return found, nil
}

func saveIndex(ids []string) error {
	sort.Strings(ids)
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return keyring.Set(service, index, string(raw))
}
