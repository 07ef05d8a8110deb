package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scicoda/coda/pkg/cursor"
)

// gotoPath walks a "/"-delimited path, translating each segment into either
// GotoField (a name) or GotoArrayElement (a decimal index) against c. An
// empty path leaves the cursor at the root.
func gotoPath(c *cursor.Cursor, path string) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if idx, err := strconv.ParseInt(seg, 10, 64); err == nil {
			if err := c.GotoArrayElement([]int64{idx}); err != nil {
				return fmt.Errorf("index %q: %w", seg, err)
			}
			continue
		}
		if err := c.GotoField(seg); err != nil {
			return fmt.Errorf("field %q: %w", seg, err)
		}
	}
	return nil
}
