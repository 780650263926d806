package api

import (
	"net/http"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all API routes on the given engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	activityService service.ActivityService,
	exerciseService service.ExerciseService,
	foodItemService service.FoodItemService,
	planService service.PlanService,
	attendanceService service.AttendanceService,
	subscriptionService service.SubscriptionService,
) {
	authHandler := NewAuthHandler(authService)
	activityHandler := NewActivityHandler(activityService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	foodItemHandler := NewFoodItemHandler(foodItemService)
	planHandler := NewPlanHandler(planService)
	attendanceHandler := NewAttendanceHandler(attendanceService)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)

	authMiddleware := AuthMiddleware(jwtSecret)
	staffOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin)
	adminOnly := RoleMiddleware(domain.RoleAdmin)
	memberOnly := RoleMiddleware(domain.RoleMember)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		// --- Activity logging (members write their own logs) ---
		logGroup := protected.Group("/logs")
		{
			logGroup.POST("/workout", memberOnly, activityHandler.LogWorkout)
			logGroup.POST("/diet", memberOnly, activityHandler.LogDiet)
		}

		// --- Log review (staff read any member's logs) ---
		reviewGroup := protected.Group("/members/:userId/logs")
		reviewGroup.Use(staffOnly)
		{
			reviewGroup.GET("/range", activityHandler.GetRangeLogs)
			reviewGroup.GET("/:date", activityHandler.GetDayLogs)
		}

		// --- Exercise library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.POST("", staffOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:exerciseId", staffOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", staffOnly, exerciseHandler.DeleteExercise)
		}

		// --- Nutrition catalog ---
		foodItemGroup := protected.Group("/food-items")
		{
			foodItemGroup.GET("", foodItemHandler.ListFoodItems)
			foodItemGroup.GET("/:foodItemId", foodItemHandler.GetFoodItem)
			foodItemGroup.POST("", staffOnly, foodItemHandler.CreateFoodItem)
			foodItemGroup.PUT("/:foodItemId", staffOnly, foodItemHandler.UpdateFoodItem)
			foodItemGroup.DELETE("/:foodItemId", staffOnly, foodItemHandler.DeleteFoodItem)
		}

		// --- Workout plans (assigned by staff, read by anyone authenticated) ---
		planGroup := protected.Group("/members/:userId/workout-plan")
		{
			planGroup.GET("", planHandler.GetWorkoutPlan)
			planGroup.PUT("", staffOnly, planHandler.SetWorkoutPlan)
			planGroup.DELETE("", staffOnly, planHandler.DeleteWorkoutPlan)
		}
		protected.POST("/workout-plan/progress", memberOnly, planHandler.RecordDayProgress)

		// --- Diet plans ---
		dietPlanGroup := protected.Group("/members/:userId/diet-plans")
		{
			dietPlanGroup.GET("", planHandler.GetDietPlans)
			dietPlanGroup.POST("", staffOnly, planHandler.CreateDietPlan)
			dietPlanGroup.PUT("/:planId", staffOnly, planHandler.UpdateDietPlan)
			dietPlanGroup.DELETE("/:planId", staffOnly, planHandler.DeleteDietPlan)
		}

		// --- Attendance ---
		protected.POST("/attendance", memberOnly, attendanceHandler.MarkPresent)
		protected.GET("/members/:userId/attendance", staffOnly, attendanceHandler.GetRange)

		// --- Subscriptions ---
		subscriptionGroup := protected.Group("/subscriptions")
		{
			subscriptionGroup.GET("/plans", subscriptionHandler.ListPlans)
			subscriptionGroup.POST("/plans", adminOnly, subscriptionHandler.CreatePlan)
			subscriptionGroup.PUT("/plans/:planId", adminOnly, subscriptionHandler.UpdatePlan)
			subscriptionGroup.DELETE("/plans/:planId", adminOnly, subscriptionHandler.DeletePlan)
			subscriptionGroup.POST("", memberOnly, subscriptionHandler.Subscribe)
			subscriptionGroup.GET("/me", memberOnly, subscriptionHandler.GetMyMembership)
		}
	}
}
