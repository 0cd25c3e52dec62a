package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)

	auth.GET("/verify-email", s.verifyEmail)
	auth.POST("/verify-email", s.verifyEmail)
	auth.POST("/resend-verification", s.resendVerificationEmail)

	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())
	protected.Use(s.middleware.RateLimit.Handler())

	protected.POST("/auth/logout", s.logout)

	accounts := protected.Group("/accounts")
	accounts.GET("/me", s.getOwnProfile)
	accounts.PUT("/me", s.updateOwnProfile)
	accounts.DELETE("/me", s.deleteOwnAccount)
	accounts.POST("/me/password", s.changePassword)
	accounts.GET("", s.listAccounts, s.middleware.Role.RequireAdmin())

	cart := protected.Group("/cart")
	cart.GET("", s.getCart)
	cart.POST("/items", s.addCartItem)
	cart.DELETE("/items/:product_ref", s.removeCartItem)
	cart.DELETE("", s.clearCart)

	audit := protected.Group("/audit")
	audit.GET("/logs", s.getAuditLogs, s.middleware.Role.RequireAdmin())
}
