package util

import (
	"math/big"
	"os"
	"strconv"
)

// GetEnv returns the value of the environment variable or the default if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

// GetEnvAsInt returns the environment variable parsed as int or the default
// if unset or unparsable.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsBool returns the environment variable parsed as bool or the default
// if unset or unparsable.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsBigInt returns the environment variable parsed as a base-10 big.Int
// or a copy of the default if unset or unparsable.
func GetEnvAsBigInt(key string, defaultVal *big.Int) *big.Int {
	strVal := GetEnv(key, "")

	const base10 = 10
	if val, ok := new(big.Int).SetString(strVal, base10); ok {
		return val
	}

	return new(big.Int).Set(defaultVal)
}
