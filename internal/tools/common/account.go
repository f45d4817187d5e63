package common

import (
	"github.com/teemow/qwilo/internal/google"
)

// GetAccountFromArgs returns the "account" argument, or the default account
// when it is missing or empty
func GetAccountFromArgs(args map[string]interface{}) string {
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return google.DefaultAccount
}

// StringArg returns a string argument, or "" when missing or not a string
func StringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// BoolArg returns a boolean argument and whether it was given
func BoolArg(args map[string]interface{}, name string) (value bool, ok bool) {
	value, ok = args[name].(bool)
	return value, ok
}
