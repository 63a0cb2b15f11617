package internal

import (
	"net/http"

	"decayd/internal/controllers"
	"decayd/internal/providers"
	"decayd/internal/structures"
)

func InitRoutes(queryController *controllers.QueryController, ingestController *controllers.IngestController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/content", http.HandlerFunc(ingestController.ContentCreated))
	routers.Post("/engagement", http.HandlerFunc(ingestController.Engagement))
	routers.Post("/emergency", http.HandlerFunc(ingestController.Emergency))
	routers.Get("/stake", http.HandlerFunc(queryController.GetStake))
	routers.Get("/score", http.HandlerFunc(queryController.GetScore))
	routers.Get("/reputation", http.HandlerFunc(queryController.GetReputation))
	routers.Get("/top", http.HandlerFunc(queryController.GetTopUsers))
	routers.Get("/stats", http.HandlerFunc(queryController.GetNetworkStats))
	return routers
}
