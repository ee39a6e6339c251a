package request

import (
	"net/http"
	"realty/shared"
	"strconv"
)

// Bool returns the parsed query value, or nil when it is missing or not a boolean.
func Bool(r *http.Request, key string) any {
	v := shared.ConvertStringToBool(r.URL.Query().Get(key))
	if v == nil {
		return nil
	}

	return *v
}

func Int(r *http.Request, key string) any {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}

	return v
}

func Float(r *http.Request, key string) any {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return nil
	}

	return v
}
