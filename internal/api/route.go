package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	v1 "github.com/joonggo/market-services/auctiongateway/internal/api/v1"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post(prefixV1+"/accounts", handler.CreateAccount)
	app.Get(prefixV1+"/accounts/:id/balance", handler.GetBalance)
	app.Post(prefixV1+"/accounts/:id/charge", handler.Charge)

	app.Post(prefixV1+"/auctions", handler.RegisterAuction)
	app.Get(prefixV1+"/auctions/:id", handler.GetAuction)
	app.Post(prefixV1+"/auctions/:id/bids", handler.PlaceBid)
	app.Post(prefixV1+"/auctions/:id/buy-now", handler.BuyNow)
	app.Post(prefixV1+"/auctions/:id/delivery", handler.RegisterDelivery)
	app.Post(prefixV1+"/auctions/:id/invoice", handler.RegisterInvoice)
	app.Post(prefixV1+"/auctions/:id/receipt", handler.ConfirmReceipt)
	app.Post(prefixV1+"/auctions/:id/payout", handler.Payout)
}
