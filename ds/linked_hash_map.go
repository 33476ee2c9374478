package ds

import (
	"bytes"
	"container/list"
	"encoding/json"
)

// LinkedHashMap is a map that remembers insertion-order in serialization and keys fetching.
type LinkedHashMap[K comparable, V any] struct {
	hashMap  map[K]V
	ordering *list.List
}

func NewLinkedHashMap[K comparable, V any]() *LinkedHashMap[K, V] {
	return &LinkedHashMap[K, V]{
		hashMap:  map[K]V{},
		ordering: list.New(),
	}
}

func (r *LinkedHashMap[K, V]) Len() int {
	return len(r.hashMap)
}

func (r *LinkedHashMap[K, V]) Keys() []K {
	keys := make([]K, 0, r.ordering.Len())
	for runner := r.ordering.Front(); runner != nil; runner = runner.Next() {
		key := runner.Value.(K)
		keys = append(keys, key)
	}
	return keys
}

// Put inserts or overwrites. An overwritten key keeps its first position.
func (r *LinkedHashMap[K, V]) Put(key K, value V) {
	_, existed := r.hashMap[key]
	if !existed {
		r.ordering.PushBack(key)
	}
	r.hashMap[key] = value
}

// PutNew inserts only when the key is absent and reports whether it did.
func (r *LinkedHashMap[K, V]) PutNew(key K, value V) bool {
	if _, existed := r.hashMap[key]; existed {
		return false
	}
	r.ordering.PushBack(key)
	r.hashMap[key] = value
	return true
}

func (r *LinkedHashMap[K, V]) Get(key K) (V, bool) {
	value, ok := r.hashMap[key]
	return value, ok
}

// Each visits entries in insertion order until fn returns false.
func (r *LinkedHashMap[K, V]) Each(fn func(key K, value V) bool) {
	for runner := r.ordering.Front(); runner != nil; runner = runner.Next() {
		key := runner.Value.(K)
		if !fn(key, r.hashMap[key]) {
			return
		}
	}
}

func (r *LinkedHashMap[K, V]) MarshalJSON() ([]byte, error) {
	bs := make([]byte, 0)
	buf := bytes.NewBuffer(bs)

	buf.WriteRune('{')
	for runner := r.ordering.Front(); runner != nil; runner = runner.Next() {
		key := runner.Value.(K)
		value := r.hashMap[key]

		keyBs, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBs)

		buf.WriteRune(':')

		valueBs, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBs)

		if runner.Next() != nil {
			buf.WriteRune(',')
		}
	}
	buf.WriteRune('}')

	return buf.Bytes(), nil
}
