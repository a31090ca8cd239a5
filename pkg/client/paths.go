package client

import (
	"fmt"
	"net/url"

	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

func literal(key string, t api.Template) (string, error) {
	p, err := t.Path()
	if err != nil {
		return "", fmt.Errorf("endpoint %s: %w", key, err)
	}
	return p, nil
}

func resolve(key string, t api.Template, id string) (string, error) {
	p, err := t.Resolve(id)
	if err != nil {
		return "", fmt.Errorf("endpoint %s: %w", key, err)
	}
	return p, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
