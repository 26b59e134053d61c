package main

import (
	"fmt"
	"strings"
)

// thresholdValue keeps the raw --min-speech-ratio value.
// It is converted to a number when the labeler is created, the same way a config file value is.
type thresholdValue struct {
	value *any
}

func (v *thresholdValue) Set(s string) error {
	*v.value = strings.TrimSpace(s)
	return nil
}

func (v *thresholdValue) String() string {
	if v.value == nil || *v.value == nil {
		return ""
	}
	return fmt.Sprint(*v.value)
}

func (v *thresholdValue) Type() string {
	return "RATIO"
}
