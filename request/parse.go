package request

// JSON adapts a body decoder into a Parser.
func JSON[T any](decode func([]byte) (T, error)) Parser[T] {
	return func(resp Response) (T, error) {
		return decode(resp.Body)
	}
}

// Text returns the response body unchanged as a string.
func Text() Parser[string] {
	return func(resp Response) (string, error) {
		return string(resp.Body), nil
	}
}
