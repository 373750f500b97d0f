package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// AttributeMap is a string keyed map that remembers insertion order, so that
// query strings and flash payloads built from it are stable.
// The zero value and a nil *AttributeMap are both empty maps.
type AttributeMap struct {
	keys   []string
	values map[string]any
}

func NewAttributeMap() *AttributeMap {
	return &AttributeMap{values: make(map[string]any)}
}

// AttributeMapFromMap copies m in sorted key order.
func AttributeMapFromMap(m map[string]any) *AttributeMap {
	am := NewAttributeMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		am.Put(k, m[k])
	}
	return am
}

func (m *AttributeMap) Put(key string, value any) *AttributeMap {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *AttributeMap) PutAll(other *AttributeMap) *AttributeMap {
	other.Each(func(k string, v any) {
		m.Put(k, v)
	})
	return m
}

func (m *AttributeMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *AttributeMap) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (m *AttributeMap) Remove(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *AttributeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *AttributeMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *AttributeMap) Each(fn func(key string, value any)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// AsMap returns an unordered copy.
func (m *AttributeMap) AsMap() map[string]any {
	res := make(map[string]any, m.Len())
	m.Each(func(k string, v any) {
		res[k] = v
	})
	return res
}

func (m *AttributeMap) Equal(other *AttributeMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if other.keys[i] != k {
			return false
		}
		a, _ := json.Marshal(m.values[k])
		b, _ := json.Marshal(other.values[k])
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}

func (m *AttributeMap) String() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func (m *AttributeMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *AttributeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = AttributeMap{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attribute map must be a json object")
	}
	res := NewAttributeMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid attribute key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		res.Put(key, value)
	}
	*m = *res
	return nil
}
