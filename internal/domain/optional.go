package domain

import (
	"bytes"
	"encoding/json"
)

// Optional carries a value together with whether it was supplied at all.
// A supplied JSON null is Set with Null true.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a supplied, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a supplied Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether a non-null value was supplied.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// EmployeePatch is the input of a selective update: only Set fields are written.
type EmployeePatch struct {
	ID     Optional[int]    `json:"empId"`
	Name   Optional[string] `json:"empName"`
	Gender Optional[string] `json:"gender"`
	Email  Optional[string] `json:"email"`
	DeptID Optional[int]    `json:"dId"`
}

// Empty reports whether the patch would not change any column.
func (p EmployeePatch) Empty() bool {
	return !p.Name.Set && !p.Gender.Set && !p.Email.Set && !p.DeptID.Set
}
