package envutil

import "github.com/drone/envsubst"

// ExpandEnv substitutes ${VAR} references in s with values from
// the environment. Unresolvable references expand to the empty string.
func ExpandEnv(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}
