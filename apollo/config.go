package apollo

import (
	"fmt"
	"strings"
)

// Config is the initialization contract for Client: an Apollo app
// identifier, the meta-server pool, the cluster name, the namespaces to
// subscribe to, and an optional access secret.
type Config struct {
	AppID       string
	MetaServers []string
	ClusterName string
	Namespaces  []string
	Secret      string
}

// namespacePrefix returns the substring up to the first '-', matching the
// Apollo convention of short-keying a fully-qualified namespace name.
func namespacePrefix(namespace string) string {
	if i := strings.IndexByte(namespace, '-'); i >= 0 {
		return namespace[:i]
	}
	return namespace
}

// validate checks the non-empty requirements from §4.B and builds the
// prefix -> fully-qualified-namespace map, rejecting duplicate prefixes.
func (c Config) validate() (map[string]string, error) {
	if c.AppID == "" || len(c.MetaServers) == 0 || c.ClusterName == "" {
		return nil, fmt.Errorf("%w: app_id, meta_server and cluster_name are required", ErrInvalidConfig)
	}
	nsMap := make(map[string]string, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		prefix := namespacePrefix(ns)
		if _, exists := nsMap[prefix]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNamespace, prefix)
		}
		nsMap[prefix] = ns
	}
	return nsMap, nil
}
