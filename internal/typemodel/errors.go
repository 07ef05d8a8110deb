package typemodel

import "fmt"

func newf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
