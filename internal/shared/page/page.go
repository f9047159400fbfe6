package page

import "github.com/gofiber/fiber/v2"

const maxLimit = 100

// Params is an offset/limit cursor for list endpoints.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery reads limit/offset query parameters, falling back to the
// configured default page size and clamping the limit.
func FromQuery(c *fiber.Ctx, defaultSize int) Params {
	limit := c.QueryInt("limit", defaultSize)
	if limit <= 0 {
		limit = defaultSize
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Envelope wraps a page of results with the total row count under the
// same filters.
func Envelope(count int64, results any) fiber.Map {
	return fiber.Map{"count": count, "results": results}
}
