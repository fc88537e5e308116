package cross

import (
	"github.com/avicd/go-utilx/refx"
	"go.starlark.net/starlark"

	"github.com/datapyn/datapyn/table"
)

// Bridge between the caller-owned namespace (string -> any) and the
// script scope. Values without a native mapping stay opaque Starlark
// values in the namespace, so functions defined in one run remain
// callable in the next.

func namespaceDict(ns map[string]any) starlark.StringDict {
	dict := make(starlark.StringDict, len(ns))
	for name, val := range ns {
		dict[name] = toStarlark(val)
	}
	return dict
}

func toStarlark(val any) starlark.Value {
	switch v := val.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return v
	case bool:
		return starlark.Bool(v)
	case int:
		return starlark.MakeInt(v)
	case int32:
		return starlark.MakeInt64(int64(v))
	case int64:
		return starlark.MakeInt64(v)
	case uint64:
		return starlark.MakeUint64(v)
	case float32:
		return starlark.Float(float64(v))
	case float64:
		return starlark.Float(v)
	case string:
		return starlark.String(v)
	case []any:
		items := make([]starlark.Value, 0, len(v))
		for _, item := range v {
			items = append(items, toStarlark(item))
		}
		return starlark.NewList(items)
	case map[string]any:
		dict := starlark.NewDict(len(v))
		for key, item := range v {
			dict.SetKey(starlark.String(key), toStarlark(item))
		}
		return dict
	default:
		return starlark.String(refx.AsString(val))
	}
}

func fromStarlark(val starlark.Value) any {
	switch v := val.(type) {
	case *table.Table:
		return v
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if n, ok := v.Int64(); ok {
			return n
		}
		return v
	case starlark.Float:
		return float64(v)
	case starlark.String:
		return string(v)
	case starlark.Tuple:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, fromStarlark(item))
		}
		return items
	case *starlark.List:
		items := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			items = append(items, fromStarlark(v.Index(i)))
		}
		return items
	case *starlark.Dict:
		out := map[string]any{}
		for _, key := range v.Keys() {
			name, ok := starlark.AsString(key)
			if !ok {
				// non-string keys keep the dict opaque
				return v
			}
			item, _, _ := v.Get(key)
			out[name] = fromStarlark(item)
		}
		return out
	default:
		return v
	}
}
