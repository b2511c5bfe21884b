package expr

import (
	"math"
	"slices"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"

	"github.com/macropower/adcheck/pkg/constraint"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `anyStatus` macro and function for checking result statuses.
		// Example: results.anyStatus(status.AFFECTED).
		// Example: results.anyStatus(status.AFFECTED, status.NOT_AFFECTED).
		cel.Macros(
			cel.ReceiverVarArgMacro("anyStatus", anyStatusVarArgMacro),
		),
		cel.Function("@anyStatus",
			cel.Overload("@anyStatus_map_string", []*cel.Type{cel.DynType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(results, want ref.Val) ref.Val {
					wantStr, ok := want.Value().(string)
					if !ok {
						return types.NewErr("anyStatus: invalid status value")
					}

					return anyStatus(results, []string{wantStr})
				}),
			),
			cel.Overload("@anyStatus_map_list_string", []*cel.Type{cel.DynType, cel.ListType(cel.StringType)}, cel.BoolType,
				cel.BinaryBinding(func(results, wants ref.Val) ref.Val {
					wantList, ok := wants.(traits.Lister)
					if !ok {
						return types.NewErr("anyStatus: invalid status list")
					}

					var statuses []string

					it := wantList.Iterator()
					for it.HasNext() == types.True {
						s, ok := it.Next().Value().(string)
						if !ok {
							return types.NewErr("anyStatus: invalid status value in list")
						}

						statuses = append(statuses, s)
					}

					return anyStatus(results, statuses)
				}),
			),
		),

		// `hasModification` reports whether any modification descriptor
		// matches the identifier.
		// Example: aircraft.modifications.hasModification("SB A320-57-1089").
		cel.Function("hasModification",
			cel.Overload("has_modification_list_string",
				[]*cel.Type{cel.ListType(cel.DynType), cel.StringType}, cel.BoolType,
				cel.BinaryBinding(hasModification),
			),
			cel.MemberOverload("list_has_modification_string",
				[]*cel.Type{cel.ListType(cel.DynType), cel.StringType}, cel.BoolType,
				cel.BinaryBinding(hasModification),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

//nolint:ireturn // Following CEL's function signature.
func anyStatusVarArgMacro(meh cel.MacroExprFactory, target ast.Expr, args []ast.Expr) (ast.Expr, *cel.Error) {
	switch len(args) {
	case 0:
		return nil, meh.NewError(target.ID(), "anyStatus() requires at least one argument")
	case 1:
		return meh.NewCall("@anyStatus", target, args[0]), nil
	default:
		return meh.NewCall("@anyStatus", target, meh.NewList(args...)), nil
	}
}

// anyStatus reports whether any value of the results map has a "status"
// field equal to one of statuses.
//
//nolint:ireturn // Following CEL's function signature.
func anyStatus(results ref.Val, statuses []string) ref.Val {
	mapper, ok := results.(traits.Mapper)
	if !ok {
		return types.NewErr("anyStatus: receiver must be a map")
	}

	it := mapper.Iterator()
	for it.HasNext() == types.True {
		result, ok := mapper.Get(it.Next()).(traits.Indexer)
		if !ok {
			continue
		}

		status, ok := result.Get(types.String("status")).Value().(string)
		if ok && slices.Contains(statuses, status) {
			return types.True
		}
	}

	return types.False
}

//nolint:ireturn // Following CEL's function signature.
func hasModification(mods, id ref.Val) ref.Val {
	idStr, ok := id.Value().(string)
	if !ok {
		return types.NewErr("hasModification: invalid modification id")
	}

	m, err := constraint.NewModification(idStr, nil, "")
	if err != nil {
		return types.NewErr("hasModification: %v", err)
	}

	modList, ok := mods.(traits.Lister)
	if !ok {
		return types.NewErr("hasModification: invalid modification list")
	}

	it := modList.Iterator()
	for it.HasNext() == types.True {
		mod, ok := it.Next().Value().(string)
		if ok && m.Matches(mod) {
			return types.True
		}
	}

	return types.False
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles the types produced by decoding JSON or YAML, and returns null for
// unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int8:
		return types.Int(int64(v))

	case int16:
		return types.Int(int64(v))

	case int32:
		return types.Int(int64(v))

	case int64:
		return types.Int(v)

	case uint:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case uint8:
		return types.Int(int64(v))

	case uint16:
		return types.Int(int64(v))

	case uint32:
		return types.Int(int64(v))

	case uint64:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float32:
		return types.Double(float64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []any:
		// Convert slice to CEL list.
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[any]any:
		// Convert map to CEL map.
		celMap := make(map[ref.Val]ref.Val)
		for key, val := range v {
			celKey := ConvertToCELValue(key)
			celVal := ConvertToCELValue(val)
			celMap[celKey] = celVal
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	case map[string]any:
		// Convert string map to CEL map.
		celMap := make(map[ref.Val]ref.Val)
		for key, val := range v {
			celKey := types.String(key)
			celVal := ConvertToCELValue(val)
			celMap[celKey] = celVal
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		// For unsupported types, return null instead of erroring.
		return types.NullValue
	}
}
