package parser

import (
	"fmt"
	"sort"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one field value of a compiled entity. Only the payload matching
// Kind is meaningful.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	List   []Value
	Object map[string]Value
}

// AsString reports the value as a string. Only string values coerce.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

func valueFrom(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case string:
		return Value{Kind: KindString, Str: v}, nil
	case float64:
		return Value{Kind: KindNumber, Num: v}, nil
	case bool:
		return Value{Kind: KindBool, Bool: v}, nil
	case []any:
		list := make([]Value, 0, len(v))
		for _, item := range v {
			value, err := valueFrom(item)
			if err != nil {
				return Value{}, err
			}
			list = append(list, value)
		}
		return Value{Kind: KindArray, List: list}, nil
	case map[string]any:
		object, err := entityFrom(v)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindObject, Object: object}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

type Entity map[string]Value

// Fields returns the entity's field names in ascending order.
func (e Entity) Fields() []string {
	fields := make([]string, 0, len(e))
	for name := range e {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

func (e Entity) Field(name string) (Value, bool) {
	value, ok := e[name]
	return value, ok
}

func entityFrom(raw map[string]any) (Entity, error) {
	entity := make(Entity, len(raw))
	for key, item := range raw {
		value, err := valueFrom(item)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		entity[key] = value
	}
	return entity, nil
}

// Table maps declaration names to their compiled entities.
type Table map[string]Entity

func (t Table) Lookup(name string) (Entity, bool) {
	entity, ok := t[name]
	return entity, ok
}

func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
