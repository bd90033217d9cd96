//go:build gofuzz

package fuzzcheck

// Fuzz is the go-fuzz entry point.
func Fuzz(data []byte) int {
	ok, err := Check(data)
	if err != nil {
		panic(err)
	}
	if !ok {
		return 0
	}
	return 1
}
