package structmap

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strain-format/strain/ir"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

func kindOf(t reflect.Type) (ir.Kind, error) {
	switch t {
	case decimalType:
		return ir.DecimalKind, nil
	case timeType:
		return ir.TimeKind, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return ir.BoolKind, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.IntKind, nil
	case reflect.Float32, reflect.Float64:
		return ir.FloatKind, nil
	case reflect.String:
		return ir.StringKind, nil
	case reflect.Slice, reflect.Array:
		if _, err := kindOf(t.Elem()); err != nil {
			return 0, err
		}
		return ir.ArrayKind, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return 0, fmt.Errorf("map keys must be strings, got %s", t.Key())
		}
		if _, err := kindOf(t.Elem()); err != nil {
			return 0, err
		}
		return ir.ObjectKind, nil
	case reflect.Struct:
		return ir.ObjectKind, nil
	case reflect.Pointer:
		return kindOf(t.Elem())
	}
	return 0, fmt.Errorf("unsupported type %s", t)
}

func toValue(rv reflect.Value) (*ir.Value, error) {
	switch rv.Type() {
	case decimalType:
		return ir.FromDecimal(rv.Interface().(decimal.Decimal)), nil
	case timeType:
		return ir.FromTime(rv.Interface().(time.Time)), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return ir.FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.FromInt(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(rv.Float()), nil
	case reflect.String:
		return ir.FromString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		vs := make([]*ir.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := toValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		return ir.FromSlice(vs), nil
	case reflect.Map:
		m := make(map[string]*ir.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := toValue(iter.Value())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = v
		}
		return ir.FromMap(m), nil
	case reflect.Struct:
		t := rv.Type()
		var kvs []ir.KeyVal
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "" {
				continue
			}
			v, err := toValue(rv.Field(i))
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: name, Val: v})
		}
		return ir.FromKeyVals(kvs), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return toValue(rv.Elem())
	}
	return nil, fmt.Errorf("unsupported type %s", rv.Type())
}

func fromValue(v *ir.Value, t reflect.Type) (reflect.Value, error) {
	if v == nil || v.Kind == ir.NullKind {
		return reflect.Zero(t), nil
	}
	switch t {
	case decimalType:
		switch v.Kind {
		case ir.DecimalKind:
			return reflect.ValueOf(*v.Decimal), nil
		case ir.IntKind:
			return reflect.ValueOf(decimal.NewFromInt(*v.Int64)), nil
		case ir.StringKind:
			d, err := decimal.NewFromString(v.String)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use %s value for decimal", v.Kind)
	case timeType:
		switch v.Kind {
		case ir.TimeKind:
			return reflect.ValueOf(*v.Time), nil
		case ir.StringKind:
			tm, err := time.Parse(time.RFC3339Nano, v.String)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(tm), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use %s value for time", v.Kind)
	}
	switch t.Kind() {
	case reflect.Bool:
		if v.Kind != ir.BoolKind {
			return reflect.Value{}, kindErr(v, t)
		}
		return reflect.ValueOf(v.Bool).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Kind != ir.IntKind {
			return reflect.Value{}, kindErr(v, t)
		}
		res := reflect.New(t).Elem()
		res.SetInt(*v.Int64)
		return res, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Kind != ir.IntKind || *v.Int64 < 0 {
			return reflect.Value{}, kindErr(v, t)
		}
		res := reflect.New(t).Elem()
		res.SetUint(uint64(*v.Int64))
		return res, nil
	case reflect.Float32, reflect.Float64:
		res := reflect.New(t).Elem()
		switch v.Kind {
		case ir.FloatKind:
			res.SetFloat(*v.Float64)
		case ir.IntKind:
			res.SetFloat(float64(*v.Int64))
		default:
			return reflect.Value{}, kindErr(v, t)
		}
		return res, nil
	case reflect.String:
		if v.Kind != ir.StringKind {
			return reflect.Value{}, kindErr(v, t)
		}
		return reflect.ValueOf(v.String).Convert(t), nil
	case reflect.Slice:
		if v.Kind != ir.ArrayKind {
			return reflect.Value{}, kindErr(v, t)
		}
		res := reflect.MakeSlice(t, len(v.Values), len(v.Values))
		for i, vv := range v.Values {
			ev, err := fromValue(vv, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			res.Index(i).Set(ev)
		}
		return res, nil
	case reflect.Map:
		if v.Kind != ir.ObjectKind {
			return reflect.Value{}, kindErr(v, t)
		}
		res := reflect.MakeMapWithSize(t, len(v.Fields))
		for i, f := range v.Fields {
			ev, err := fromValue(v.Values[i], t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			res.SetMapIndex(reflect.ValueOf(f).Convert(t.Key()), ev)
		}
		return res, nil
	case reflect.Struct:
		if v.Kind != ir.ObjectKind {
			return reflect.Value{}, kindErr(v, t)
		}
		res := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "" {
				continue
			}
			fv := v.Get(name)
			if fv == nil {
				continue
			}
			ev, err := fromValue(fv, f.Type)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %q: %w", name, err)
			}
			res.Field(i).Set(ev)
		}
		return res, nil
	case reflect.Pointer:
		ev, err := fromValue(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		res := reflect.New(t.Elem())
		res.Elem().Set(ev)
		return res, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported type %s", t)
}

func kindErr(v *ir.Value, t reflect.Type) error {
	return fmt.Errorf("cannot use %s value for %s", v.Kind, t)
}
