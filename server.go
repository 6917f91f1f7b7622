package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/handlers"
	"github.com/bizcoresoft/bakery_backend/middlewares"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func main() {
	_ = godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server before the dependencies are ready; app endpoints
	// return 503 until the database is connected.
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.POST("/auth/register", handlers.Register)
	r.POST("/auth/login", handlers.Login)

	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.POST("/accounts", handlers.CreateChartAccount)
		api.PUT("/accounts/:id", handlers.UpdateChartAccount)
		api.DELETE("/accounts/:id", handlers.DeleteChartAccount)
		api.GET("/accounts", handlers.GetChartAccounts)
		api.GET("/accounts/:id", handlers.GetChartAccount)
		api.GET("/accounts/:id/balance", handlers.GetAccountBalance)

		api.POST("/currency-exchanges", handlers.CreateCurrencyExchange)

		api.GET("/bookings", handlers.GetBookings)
		api.GET("/bookings/:id", handlers.GetBooking)

		api.POST("/employees", handlers.CreateEmployee)
		api.PUT("/employees/:id", handlers.UpdateEmployee)
		api.GET("/employees", handlers.GetEmployees)

		api.POST("/sales-persons", handlers.CreateSalesPerson)
		api.GET("/sales-persons", handlers.GetSalesPersons)
		api.POST("/sales-persons/apply-balance", handlers.ApplyCommissionBalance)

		api.POST("/commissions", handlers.CreateCommission)
		api.GET("/commissions/:id", handlers.GetCommission)
		api.GET("/commissions/payable", handlers.GetPayableCommissions)
		api.DELETE("/commissions/:id", handlers.DeleteCommission)
		api.POST("/commissions/pay", handlers.PayCommission)

		api.POST("/bulk-payments/preview", handlers.PreviewBulkPayment)
		api.POST("/bulk-payments", handlers.ConfirmBulkPayment)
		api.GET("/bulk-payments", handlers.GetBulkPayments)
		api.DELETE("/bulk-payments/:id", handlers.DeleteBulkPayment)

		api.POST("/statements", handlers.CreateBankStatement)
		api.GET("/statements/:id", handlers.GetBankStatement)
		api.POST("/statements/:id/lines", handlers.AddStatementLine)
		api.POST("/statements/:id/import", handlers.ImportStatementLines)
		api.GET("/statements/template", handlers.DownloadStatementTemplate)
		api.POST("/statements/:id/auto-match", handlers.AutoMatchStatement)
		api.POST("/statements/:id/validate", handlers.ValidateBankStatement)
		api.POST("/matches", handlers.ManualMatch)
		api.DELETE("/matches/:id", handlers.DeleteMatch)

		api.POST("/vendors", handlers.CreateVendor)
		api.PUT("/vendors/:id", handlers.UpdateVendor)
		api.DELETE("/vendors/:id", handlers.DeleteVendor)
		api.GET("/vendors", handlers.GetVendors)
		api.POST("/vendors/pay", handlers.PayVendor)

		api.POST("/items", handlers.CreateItem)
		api.PUT("/items/:id", handlers.UpdateItem)
		api.GET("/items", handlers.GetItems)
		api.GET("/items/:id/cost-history", handlers.GetItemCostHistory)

		api.POST("/purchases", handlers.CreatePurchaseOrder)
		api.GET("/purchases", handlers.GetPurchaseOrders)
		api.DELETE("/purchases/:id", handlers.DeletePurchaseOrder)
		api.POST("/purchases/:id/receive", handlers.ReceivePurchase)

		api.GET("/reports/balance-sheet", handlers.GetBalanceSheet)
		api.GET("/reports/balance-sheet/export", handlers.ExportBalanceSheet)
		api.GET("/reports/cash-flow", handlers.GetCashFlow)
		api.GET("/reports/vendor-statement/:id", handlers.GetVendorStatement)
		api.GET("/reports/vendor-statement/:id/export", handlers.ExportVendorStatement)
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	if strings.EqualFold(os.Getenv("DB_AUTO_MIGRATE"), "true") {
		if err := models.AutoMigrate(config.GetDB()); err != nil {
			logger.WithFields(logrus.Fields{"field": "migration"}).Panic(err.Error())
		}
	}

	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithFields(logrus.Fields{"field": "http"}).Panic(err.Error())
		}
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
