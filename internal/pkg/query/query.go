// Package query binds URL query strings onto filter structs tagged with `schema:"..."`.
package query

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
)

var (
	decoder     *schema.Decoder
	decoderOnce sync.Once
)

func getDecoder() *schema.Decoder {
	decoderOnce.Do(func() {
		decoder = schema.NewDecoder()
		decoder.IgnoreUnknownKeys(true)
		decoder.ZeroEmpty(true)
	})
	return decoder
}

// Decode fills dst from the request's query string
func Decode(c *fiber.Ctx, dst interface{}) error {
	values := map[string][]string{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	if err := getDecoder().Decode(dst, values); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}
