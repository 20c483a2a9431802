//go:build debug

package pool

import (
	"fmt"
	"math"
	"reflect"
	"runtime/debug"
)

const poisonString = "<<poison>>"

// debugState tracks live acquisitions per pool so leaked and double-released
// items can be reported with the stack that acquired them. Debug builds also
// poison released items so any caller still holding a reference observes
// garbage instead of silently reading recycled state.
type debugState struct {
	name   string
	stacks map[uintptr]string
}

func newDebugState(name string) *debugState {
	return &debugState{
		name:   name,
		stacks: make(map[uintptr]string),
	}
}

func (d *debugState) recordAcquire(item any) {
	if d == nil {
		return
	}
	key := pointerKey(item)
	if key == 0 {
		return
	}
	d.stacks[key] = string(debug.Stack())
}

func (d *debugState) recordRelease(item any) {
	if d == nil {
		return
	}
	key := pointerKey(item)
	if key == 0 {
		return
	}
	if _, live := d.stacks[key]; !live {
		panic(fmt.Sprintf("pool %s: double release detected for %T\n%s", d.name, item, debug.Stack()))
	}
	delete(d.stacks, key)
}

func (d *debugState) activeStacks() []string {
	if d == nil || len(d.stacks) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.stacks))
	for _, stack := range d.stacks {
		out = append(out, stack)
	}
	return out
}

func (d *debugState) poison(item any) {
	if d == nil || item == nil {
		return
	}
	v := reflect.ValueOf(item)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	poisonValue(v.Elem())
}

// clear re-runs Reset on acquisition so poisoned state never leaks back out.
func (d *debugState) clear(item any) {
	if d == nil || item == nil {
		return
	}
	if resettable, ok := item.(Item); ok {
		resettable.Reset()
	}
}

func poisonValue(v reflect.Value) {
	if !v.IsValid() || !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(poisonString)
	case reflect.Bool:
		v.SetBool(true)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(-1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(math.MaxUint64)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(math.MaxFloat64)
	case reflect.Slice:
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	case reflect.Map:
		v.Set(reflect.MakeMapWithSize(v.Type(), 0))
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			poisonValue(v.Field(i))
		}
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		poisonValue(v.Elem())
	}
}

func pointerKey(item any) uintptr {
	if item == nil {
		return 0
	}
	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return 0
	}
	return v.Pointer()
}
