package domain

import "fmt"

// DemoStrategy decides what happens to a voice id that is neither built-in
// nor user-owned when demo mode is enabled.
type DemoStrategy int

const (
	// DemoHashMap deterministically maps the unknown id onto a built-in
	// effect, so the same id always lands on the same effect.
	DemoHashMap DemoStrategy = iota
	// DemoPassthrough skips conversion and copies input to output verbatim.
	DemoPassthrough
)

func (s DemoStrategy) String() string {
	switch s {
	case DemoHashMap:
		return "hashmap"
	case DemoPassthrough:
		return "passthrough"
	}
	return fmt.Sprintf("DemoStrategy(%d)", int(s))
}

func ParseDemoStrategy(name string) (DemoStrategy, error) {
	switch name {
	case "", "hashmap":
		return DemoHashMap, nil
	case "passthrough":
		return DemoPassthrough, nil
	}
	return DemoHashMap, fmt.Errorf("unknown demo strategy: %q", name)
}
