package common

import (
	"encoding/json"
	"os"
)

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func InStringArray(a []string, s string) (index int, found bool) {
	var h string
	for index, h = range a {
		found = h == s
		if found {
			return
		}
	}

	index = -1
	return
}

//
// Function to wrap calls to `json.Unmarshall` that cannot fail
//
// This function should only be used when doing calls that cannot fails,
// e.g. reading the content of the on-disk storage which was serialized by ballotbox.
// It ensures no silent corruption of data can happen
func MustUnmarshalJSON(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}
