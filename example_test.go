package lazy_test

import (
	"fmt"

	"github.com/coder/lazy"
)

// A package-level holder is the safe replacement for the classic racy
// "check nil, then assign" singleton: construction happens once, on first
// use, no matter who asks first.
var messageOfTheDay = lazy.New(func() string {
	fmt.Println("computing message")
	return "hello"
})

func ExampleNew() {
	fmt.Println(messageOfTheDay.Load())
	fmt.Println(messageOfTheDay.Load())
	// Output:
	// computing message
	// hello
	// hello
}

func ExampleNewWithError() {
	settings := lazy.NewWithError(func() (map[string]string, error) {
		// Parse files, dial services, or anything else that can fail.
		return map[string]string{"region": "us-east"}, nil
	})

	parsed, err := settings.Load()
	if err != nil {
		panic(err)
	}
	fmt.Println(parsed["region"])
	// Output: us-east
}
