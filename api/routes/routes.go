package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/raghav2405/invoice-backend/api/handlers"
	"github.com/raghav2405/invoice-backend/api/middleware"
	"github.com/raghav2405/invoice-backend/pkg/ratelimit"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers, limiter *ratelimit.Limiter) {
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(limiter))

	inv := r.Group("/invoice")
	{
		inv.GET("/", h.Invoice.GetInvoice)
		inv.POST("/add_row", h.Invoice.AddRow)
		inv.POST("/generate_pdf", h.Invoice.GeneratePDF)
	}

	pdf := r.Group("/pdf")
	{
		pdf.POST("/process/:invoiceType", h.PDF.Process)
	}
}
