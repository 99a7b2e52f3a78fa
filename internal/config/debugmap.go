package config

import "reflect"

// DebugMap returns the configuration as nested maps for structured logging.
// Fields tagged debugmap:"hidden" are masked.
func (c *Configuration) DebugMap() map[string]any {
	return debugMap(reflect.ValueOf(c).Elem())
}

func debugMap(v reflect.Value) map[string]any {
	out := make(map[string]any, v.NumField())
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		switch f.Tag.Get("debugmap") {
		case "visible":
			if f.Type.Kind() == reflect.Struct && f.Type.PkgPath() == t.PkgPath() {
				out[f.Name] = debugMap(v.Field(i))
				continue
			}
			out[f.Name] = v.Field(i).Interface()
		case "hidden":
			if !v.Field(i).IsZero() {
				out[f.Name] = "(sensitive)"
			}
		}
	}
	return out
}
