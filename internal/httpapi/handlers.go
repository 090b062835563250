package httpapi

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/report"
)

var errMissingProduct = errors.New("product is required")

func (s *Server) handleProducts(c *fiber.Ctx) error {
	products, fellBack, err := s.svc.Products(c.Query("search"))
	if err != nil {
		return fail(c, err)
	}

	message := "Products retrieved successfully"
	if fellBack {
		message = fmt.Sprintf("No product matches %q, returning all products", c.Query("search"))
	}
	return success(c, message, productsResponse{
		Products: products,
		Count:    len(products),
		FellBack: fellBack,
	})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return fail(c, &forecast.ValidationError{Field: "product", Value: c.Params("key"), Err: err})
	}

	stats, obs, err := s.svc.History(key)
	if err != nil {
		return fail(c, err)
	}
	return success(c, "History retrieved successfully", newHistoryResponse(key, stats, obs))
}

// runForecast parses the product and range query parameters and runs the
// forecast.
func (s *Server) runForecast(c *fiber.Ctx) (*forecast.Result, error) {
	product := c.Query("product")
	if product == "" {
		return nil, &forecast.ValidationError{Field: "product", Value: "", Err: errMissingProduct}
	}

	start, err := forecast.ParseDate("start date", c.Query("start", s.defaultStart))
	if err != nil {
		return nil, err
	}
	end, err := forecast.ParseDate("end date", c.Query("end", s.defaultEnd))
	if err != nil {
		return nil, err
	}
	return s.svc.Forecast(product, start, end)
}

func (s *Server) handleForecast(c *fiber.Ctx) error {
	res, err := s.runForecast(c)
	if err != nil {
		return fail(c, err)
	}
	return success(c, "Forecast generated successfully", newForecastResponse(res))
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	res, err := s.runForecast(c)
	if err != nil {
		return fail(c, err)
	}

	c.Attachment(res.Filename())
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	if err := report.WriteCSV(c, res.Export); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
