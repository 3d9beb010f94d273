package routes

import (
	"net/http"

	"hostelhub/admin"
	"hostelhub/auth"
	"hostelhub/booking"
	"hostelhub/complaints"
	"hostelhub/mess"
	"hostelhub/middleware"
	"hostelhub/notices"
	"hostelhub/notifications"
	"hostelhub/outpass"
	"hostelhub/profile"
	"hostelhub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/avatars/*filepath", http.Dir("static/avatars"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))
}

func AddRoomRoutes(router *httprouter.Router) {
	router.GET("/api/rooms", middleware.Authenticate(booking.GetRooms))
	router.GET("/api/rooms/:roomid", middleware.Authenticate(booking.GetRoom))
	router.GET("/ws/rooms/:roomid", middleware.Authenticate(booking.RoomWS))

	router.POST("/api/admin/rooms", middleware.AdminOnly(booking.CreateRoom))
	router.PUT("/api/admin/rooms/:roomid", middleware.AdminOnly(booking.UpdateRoom))
	router.DELETE("/api/admin/rooms/:roomid", middleware.AdminOnly(booking.DeleteRoom))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", ratelim.RateLimit(middleware.Authenticate(booking.BookBed)))
	router.GET("/api/bookings/me", middleware.Authenticate(booking.GetMyBooking))
	router.POST("/api/bookings/me/leave", middleware.Authenticate(booking.RequestLeave))
	router.DELETE("/api/bookings/me", middleware.Authenticate(booking.DismissBooking))

	router.GET("/api/admin/bookings", middleware.AdminOnly(booking.ListBookings))
	router.POST("/api/admin/bookings/:id/:action", middleware.AdminOnly(booking.BookingAction))
}

func AddOutpassRoutes(router *httprouter.Router) {
	router.POST("/api/outpasses", ratelim.RateLimit(middleware.Authenticate(outpass.CreateOutpass)))
	router.GET("/api/outpasses", middleware.Authenticate(outpass.GetMyOutpasses))
	router.GET("/api/outpasses/:id/pass", middleware.Authenticate(outpass.PrintGatePass))
	router.DELETE("/api/outpasses/:id", middleware.Authenticate(outpass.DeleteOutpass))

	router.GET("/api/admin/outpasses", middleware.AdminOnly(outpass.ListOutpasses))
	router.POST("/api/admin/outpasses/:id/:action", middleware.AdminOnly(outpass.OutpassAction))
}

func AddComplaintRoutes(router *httprouter.Router) {
	router.POST("/api/complaints", ratelim.RateLimit(middleware.Authenticate(complaints.CreateComplaint)))
	router.GET("/api/complaints/me", middleware.Authenticate(complaints.GetMyComplaints))
	router.PUT("/api/complaints/:id", middleware.Authenticate(complaints.EditComplaint))
	router.DELETE("/api/complaints/:id", middleware.Authenticate(complaints.DeleteComplaint))

	router.GET("/api/admin/complaints", middleware.AdminOnly(complaints.ListComplaints))
	router.POST("/api/admin/complaints/:id/status", middleware.AdminOnly(complaints.SetComplaintStatus))
	router.DELETE("/api/admin/complaints/:id", middleware.AdminOnly(complaints.AdminDeleteComplaint))
}

func AddNoticeRoutes(router *httprouter.Router) {
	router.GET("/api/notices", middleware.Authenticate(notices.GetNotices))

	router.POST("/api/admin/notices", middleware.AdminOnly(notices.PostNotice))
	router.DELETE("/api/admin/notices/:id", middleware.AdminOnly(notices.DeleteNotice))
	router.DELETE("/api/admin/notices", middleware.AdminOnly(notices.ClearNotices))
}

func AddNotificationRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.ListNotifications))
	router.POST("/api/notifications/read", middleware.Authenticate(notifications.MarkAllRead))
	router.DELETE("/api/notifications/:id", middleware.Authenticate(notifications.DismissNotification))

	router.POST("/api/admin/broadcasts", middleware.AdminOnly(notifications.CreateBroadcast))
	router.GET("/api/admin/broadcasts", middleware.AdminOnly(notifications.ListBroadcasts))
	router.DELETE("/api/admin/broadcasts/:id", middleware.AdminOnly(notifications.DeleteBroadcast))
	router.DELETE("/api/admin/broadcasts", middleware.AdminOnly(notifications.ClearBroadcasts))
}

func AddMessRoutes(router *httprouter.Router) {
	router.GET("/api/mess/menu", middleware.Authenticate(mess.GetMenu))
	router.GET("/api/mess/ratings", middleware.Authenticate(mess.GetRatings))
	router.POST("/api/mess/ratings", ratelim.RateLimit(middleware.Authenticate(mess.RateMeal)))

	router.PUT("/api/admin/mess/menu", middleware.AdminOnly(mess.SaveMenu))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.EditProfile))
	router.POST("/api/profile/avatar", middleware.Authenticate(profile.EditAvatar))
	router.DELETE("/api/profile/avatar", middleware.Authenticate(profile.RemoveAvatar))
	router.GET("/api/profile/idcard", middleware.Authenticate(profile.PrintIDCard))

	router.POST("/api/admin/verify", middleware.AdminOnly(profile.VerifyResident))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/users", middleware.AdminOnly(admin.ListUsers))
	router.GET("/api/admin/users/deleted", middleware.AdminOnly(admin.ListDeletedUsers))
	router.POST("/api/admin/users/:userid/role/:action", middleware.AdminOnly(admin.SetAdminRole))
	router.POST("/api/admin/users/:userid/restore", middleware.AdminOnly(admin.RestoreUser))
	router.DELETE("/api/admin/users/:userid", middleware.AdminOnly(admin.ArchiveUser))
}
