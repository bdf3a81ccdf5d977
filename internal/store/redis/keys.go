package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixList is the prefix for list keys
	KeyPrefixList = "awesomehub:list:"
	// KeyPrefixDigest is the prefix for README digest keys
	KeyPrefixDigest = "awesomehub:readme:"
	// KeyAllLists is the key for the set of all list IDs
	KeyAllLists = "awesomehub:lists:all"
	// KeyLastChecked is the hash of list ID -> last upstream check
	KeyLastChecked = "awesomehub:lists:checked"
)

// ListKey returns the Redis key for a list by ID ("owner/repo")
func ListKey(id string) string {
	return KeyPrefixList + id
}

// DigestKey returns the Redis key holding the README digest of a list
func DigestKey(id string) string {
	return KeyPrefixDigest + id
}

// AllListsKey returns the key for the set of all list IDs
func AllListsKey() string {
	return KeyAllLists
}

// ExtractListID extracts the list ID from a Redis key
func ExtractListID(key string) (string, error) {
	if !strings.HasPrefix(key, KeyPrefixList) || len(key) <= len(KeyPrefixList) {
		return "", fmt.Errorf("invalid list key: %s", key)
	}
	return key[len(KeyPrefixList):], nil
}
