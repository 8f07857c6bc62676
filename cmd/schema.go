package cmd

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/control"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/media"
)

var schemaTargets = map[string]any{
	"snapshot": &media.Snapshot{},
	"status":   &control.Status{},
	"profile":  &engine.Profile{},
	"error":    &media.ErrorInfo{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

var schemaCmd = &cobra.Command{
	Use:       "schema [snapshot|status|profile|error]",
	Short:     "Generate JSON schemas for the structured outputs",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: lo.Keys(schemaTargets),
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(newReflector().Reflect(schemaTargets[args[0]])))
	},
}

func newReflector() *jsonschema.Reflector {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Mapper = schemaMapper
	reflector.Namer = func(t reflect.Type) string {
		switch strings.ToLower(t.Name()) {
		case "status", "snapshot", "size":
			return t.PkgPath()[strings.LastIndex(t.PkgPath(), "/")+1:] + "." + t.Name()
		}
		return t.Name()
	}
	return reflector
}

var (
	stateType     = reflect.TypeOf(media.State(0))
	loadShapeType = reflect.TypeOf(engine.LoadShape(0))
)

// schemaMapper describes the types encoding themselves as text or null.
func schemaMapper(t reflect.Type) *jsonschema.Schema {
	switch t {
	case stateType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: lo.Map(media.States(), func(s media.State, _ int) any { return s.String() }),
		}
	case loadShapeType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: []any{engine.LoadPromise.String(), engine.LoadAssign.String()},
		}
	}

	if inner, ok := optionOf(t); ok {
		value := schemaMapper(inner)
		if value == nil {
			value = &jsonschema.Schema{Type: jsonType(inner)}
		}
		return &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{value, {Type: "null"}},
		}
	}

	return nil
}

// optionOf returns T for mo.Option[T].
func optionOf(t reflect.Type) (reflect.Type, bool) {
	if t.PkgPath() != "github.com/samber/mo" || !strings.HasPrefix(t.Name(), "Option[") {
		return nil, false
	}
	get, ok := t.MethodByName("MustGet")
	if !ok || get.Type.NumOut() != 1 {
		return nil, false
	}
	return get.Type.Out(0), true
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}
