package controllersfx

import (
	"go.uber.org/fx"

	"voyago/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewActivityController),
	fx.Provide(controllers.NewTagController),
	fx.Provide(controllers.NewDestinationController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewFeedbackController),
)
