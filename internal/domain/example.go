package domain

import (
	_ "embed"
)

//go:embed example.yaml
var exampleYAML []byte

// ExampleYAML returns the source of the built-in example domain.
func ExampleYAML() []byte { return append([]byte(nil), exampleYAML...) }

// Example returns the built-in example domain: a soldier who must get rid of
// an enemy, either by gun or, at a price, by bomb.
func Example() *Domain {
	d, err := ParseYAML(exampleYAML)
	if err != nil {
		panic(err)
	}
	return d
}
