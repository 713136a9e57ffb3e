package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekremrn/crypto-excel-export/internal/domain/dto"
	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
	"github.com/ekremrn/crypto-excel-export/internal/exporter"
	"github.com/ekremrn/crypto-excel-export/internal/logger"
	"github.com/ekremrn/crypto-excel-export/internal/service"
)

const dateLayout = "2006-01-02"

// Handler provides the HTTP handlers for the export endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Run fetch and export through the service layer
//   - Translate results into response DTOs or a file download
//   - Map failures onto appropriate HTTP status codes
type Handler struct {
	svc service.ExportService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.ExportService): orchestration dependency used to fetch
//     series and build workbooks.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.ExportService) *Handler {
	return &Handler{svc: svc}
}

// Index renders the single-page export form.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Exchanges": h.svc.Exchanges(),
		"Intervals": models.Intervals(),
		"Symbol":    "BTCUSDT",
		"Start":     "2019-01-01",
		"End":       time.Now().UTC().Format(dateLayout),
	})
}

// GetKlines handles GET /api/v1/klines requests: a JSON preview of the
// series an export would contain.
//
// Query Parameters:
//   - exchange (string, optional): "binance" or "kucoin"; defaults to the configured exchange.
//   - symbol (string, required): Trading pair (e.g., "BTCUSDT").
//   - interval (string, required): Candle interval (e.g., "1d").
//   - start (string, required): Range start in YYYY-MM-DD.
//   - end (string, optional): Range end in YYYY-MM-DD; defaults to today.
//   - limit (int, optional): Truncate the candles array; count stays the full total.
//
// GetKlines godoc
// @Summary      Preview k-line data
// @Description  Fetches the full candle series for the range and returns it as JSON
// @Tags         klines
// @Produce      json
// @Param        exchange  query     string  false  "Exchange"             example(binance)
// @Param        symbol    query     string  true   "Trading pair"         example(BTCUSDT)
// @Param        interval  query     string  true   "Candle interval"      example(1d)
// @Param        start     query     string  true   "Start date"           example(2023-01-01)
// @Param        end       query     string  false  "End date"             example(2023-01-05)
// @Param        limit     query     int     false  "Max candles in body"  example(10)
// @Success      200       {object}  dto.KlinesResponse     "Success"
// @Failure      400       {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422       {object}  dto.ErrorResponse      "Rejected by exchange"
// @Failure      502       {object}  dto.ErrorResponse      "Upstream failure"
// @Router       /api/v1/klines [get]
func (h *Handler) GetKlines(c *gin.Context) {
	exchangeName, q, ok := h.parseQuery(c)
	if !ok {
		return
	}

	series, err := h.svc.Series(c.Request.Context(), exchangeName, q, nil)
	if err != nil {
		h.respondError(c, err)
		return
	}

	candles := series
	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit, expected a non-negative integer", err))
			return
		}
		if limit < len(candles) {
			candles = candles[:limit]
		}
	}

	q = q.Normalize()
	c.JSON(http.StatusOK, dto.KlinesResponse{
		Exchange: exchangeName,
		Symbol:   q.Symbol,
		Interval: q.Interval.String(),
		Start:    q.Start,
		End:      q.End,
		Count:    len(series),
		Candles:  dto.NewCandleDTOs(candles),
	})
}

// Export handles GET /api/v1/export requests: the xlsx download.
//
// Takes the same parameters as GetKlines minus limit. An empty series still
// produces a 200 with a headers-only workbook.
//
// Export godoc
// @Summary      Export k-line data as xlsx
// @Description  Fetches the full candle series and streams it back as a styled spreadsheet
// @Tags         klines
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        exchange  query     string  false  "Exchange"         example(binance)
// @Param        symbol    query     string  true   "Trading pair"     example(BTCUSDT)
// @Param        interval  query     string  true   "Candle interval"  example(1d)
// @Param        start     query     string  true   "Start date"       example(2023-01-01)
// @Param        end       query     string  false  "End date"         example(2023-01-05)
// @Success      200       {file}    file                   "xlsx workbook"
// @Failure      400       {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422       {object}  dto.ErrorResponse      "Rejected by exchange"
// @Failure      502       {object}  dto.ErrorResponse      "Upstream failure"
// @Router       /api/v1/export [get]
func (h *Handler) Export(c *gin.Context) {
	exchangeName, q, ok := h.parseQuery(c)
	if !ok {
		return
	}

	wb, filename, err := h.svc.Workbook(c.Request.Context(), exchangeName, q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer func() { _ = wb.Close() }()

	c.Header("Content-Type", exporter.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := wb.Write(c.Writer); err != nil {
		// headers are out; nothing left to do but log
		logger.L().Error().Err(err).Str("filename", filename).Msg("streaming workbook failed")
	}
}

// parseQuery validates the shared query parameters. On failure it writes a
// 400 response and returns ok=false.
func (h *Handler) parseQuery(c *gin.Context) (exchangeName string, q models.Query, ok bool) {
	exchangeName = c.Query("exchange")

	interval, err := models.ParseInterval(c.Query("interval"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid interval", err))
		return "", models.Query{}, false
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid start date, expected YYYY-MM-DD", err))
		return "", models.Query{}, false
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if s := c.Query("end"); s != "" {
		end, err = time.Parse(dateLayout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid end date, expected YYYY-MM-DD", err))
			return "", models.Query{}, false
		}
	}

	q = models.Query{
		Symbol:   c.Query("symbol"),
		Interval: interval,
		Start:    start,
		End:      end,
	}.Normalize()

	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request", err))
		return "", models.Query{}, false
	}
	return exchangeName, q, true
}

// respondError maps a fetch failure onto the error taxonomy:
//   - unknown exchange or invalid query: 400 (client can fix the request)
//   - exchange rejected the request (bad symbol etc.): 422
//   - anything else upstream (network, 5xx, rate limit exhaustion): 502
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownExchange):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("unknown exchange", err))
	case errors.Is(err, models.ErrDateOrder):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request", err))
	case exchange.IsClientFault(err):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("exchange rejected the request", err))
	default:
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("failed to fetch data from exchange", err))
	}
}
