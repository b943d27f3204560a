package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// ModelColumns lists the db-tagged columns of a struct model, in field
// order. Pair it with ModelValues to build batch inserts without keeping a
// hand-maintained column list next to the model.
func ModelColumns(model any) ([]string, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, err
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		col, ok := dbColumn(typ.Field(i))
		if !ok {
			continue
		}
		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return cols, nil
}

// ModelValues returns the field values matching ModelColumns for the same
// model type.
func ModelValues(model any) ([]any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, err
	}

	typ := value.Type()
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if _, ok := dbColumn(typ.Field(i)); !ok {
			continue
		}
		vals = append(vals, value.Field(i).Interface())
	}

	if len(vals) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return vals, nil
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct")
	}
	return value, nil
}

func dbColumn(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}
	tag := strings.TrimSpace(field.Tag.Get("db"))
	if tag == "" || tag == "-" {
		return "", false
	}
	col := strings.TrimSpace(strings.Split(tag, ",")[0])
	if col == "" || col == "-" {
		return "", false
	}
	return col, true
}
