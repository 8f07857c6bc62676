package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/where"
)

// ErrUnknownKey is returned for keys missing from Default.
var ErrUnknownKey = errors.New("unknown key")

// Path returns the location of the config file.
func Path() string {
	return filepath.Join(where.Config(), constant.Mediabridge+".toml")
}

// Write persists the in-memory configuration, creating the file when missing.
func Write() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

// Closest returns the registered key nearest to key by edit distance.
func Closest(key string) string {
	return lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		da, db := levenshtein.Distance(key, a), levenshtein.Distance(key, b)
		if da == db {
			return a < b
		}
		return da < db
	})
}

// Lookup returns the field of key, suggesting the closest key when unknown.
func Lookup(key string) (Field, error) {
	if f, ok := Default[key]; ok {
		return f, nil
	}
	return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, key, Closest(key))
}

// Parse converts raw command-line values to the type of the field's default.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value", f.Key)
	}

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer value: %s", f.Key, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean value: %s", f.Key, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}

// ResetKey restores key to its default value, or every key when key is empty.
func ResetKey(key string) error {
	if key == "" {
		for k, f := range Default {
			viper.Set(k, f.Value)
		}
		return nil
	}

	f, err := Lookup(key)
	if err != nil {
		return err
	}
	viper.Set(key, f.Value)
	return nil
}
