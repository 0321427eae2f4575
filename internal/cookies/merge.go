// Package cookies combines raw cookie header fragments collected over a
// multi-request session emulation.
package cookies

import (
	"net/http"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[,;]+`)

type jar struct {
	order  []string
	values map[string]string
}

func (j *jar) parse(fragment string) {
	for _, entry := range separators.Split(fragment, -1) {
		entry = strings.TrimSpace(entry)
		name, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if _, exists := j.values[name]; !exists {
			j.order = append(j.order, name)
		}
		j.values[name] = value
	}
}

// Merge combines two raw cookie fragments into a single Cookie header value.
//
// Each fragment may hold several name=value pairs separated by ';' or ','.
// Pairs without a name or a value are dropped. A name keeps the position of its
// first appearance and the value of its last one.
func Merge(first, second string) string {
	j := jar{values: map[string]string{}}
	j.parse(first)
	j.parse(second)

	pairs := make([]string, len(j.order))
	for i, name := range j.order {
		pairs[i] = name + "=" + j.values[name]
	}
	return strings.Join(pairs, "; ")
}

// Header reduces Set-Cookie records to a Cookie header fragment, attributes
// like Path or Expires are dropped.
func Header(set []*http.Cookie) string {
	pairs := make([]string, 0, len(set))
	for _, c := range set {
		if c.Name == "" {
			continue
		}
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
