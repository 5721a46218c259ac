package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.GET("/auth/verify", s.verifyMagicLink)
	s.echo.GET(verifyErrorPath, s.verifyErrorPage)

	api := s.echo.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/request-magic-link", s.requestMagicLink, s.middleware.RateLimit.PerIP())
	auth.POST("/logout", s.logout)
	auth.GET("/session", s.currentSession, s.middleware.Session.RequireAPI())

	admin := api.Group("/admin", s.middleware.Session.RequireAdmin())
	admin.GET("/auth-events", s.listAuthEvents)

	page := s.middleware.Session.RequirePage()
	s.echo.GET("/dashboard", s.dashboardPage, page)
	s.echo.GET("/submit/:step", s.submitPage, page)
}
