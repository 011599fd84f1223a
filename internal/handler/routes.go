package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every endpoint group mounted by Register.
type Handlers struct {
	Dashboard  *DashboardHandler
	Students   *StudentHandler
	Goals      *GoalHandler
	Events     *EventHandler
	TrialLogs  *TrialLogHandler
	SoapNotes  *SoapNoteHandler
	Quarterly  *QuarterlyReportHandler
	Reports    *ReportHandler
	Quotas     *QuotaHandler
	Activities *ActivityHandler
	System     *SystemHandler
}

// Register mounts the caseload routes at the root of r.
func Register(r gin.IRouter, h Handlers) {
	if h.System != nil {
		r.GET("/health", h.System.Health)
		r.GET("/ready", h.System.Ready)
		r.GET("/metrics", h.System.Prometheus)
		r.GET("/system/status", h.System.Status)
	}

	r.GET("/", h.Dashboard.Summary)

	r.GET("/students", h.Students.List)
	r.GET("/student_search", h.Students.Search)
	r.GET("/student/:id", h.Students.Get)
	r.POST("/add_student", h.Students.Create)
	r.GET("/edit_student/:id", h.Students.Get)
	r.POST("/edit_student/:id", h.Students.Update)
	r.POST("/delete_student/:id", h.Students.Delete)

	r.GET("/add_goal/:student_id", h.Goals.AddGoalForm)
	r.POST("/add_goal/:student_id", h.Goals.AddGoal)
	r.GET("/add_objective/:goal_id", h.Goals.GetGoal)
	r.POST("/add_objective/:goal_id", h.Goals.AddObjective)
	r.GET("/edit_goal/:id", h.Goals.GetGoal)
	r.POST("/edit_goal/:id", h.Goals.EditGoal)
	r.GET("/edit_objective/:id", h.Goals.GetObjective)
	r.POST("/edit_objective/:id", h.Goals.EditObjective)
	r.POST("/archive_goal/:id", h.Goals.ArchiveGoal)
	r.POST("/archive_objective/:id", h.Goals.ArchiveObjective)

	r.GET("/sessions", h.Events.Sessions)
	r.GET("/scheduled_sessions_pending", h.Events.Pending)
	r.GET("/bulk_sessions", h.Events.BulkForm)
	r.POST("/bulk_sessions", h.Events.BulkSessions)
	r.POST("/archive_session/:id", h.Events.Archive)
	r.POST("/delete_event/:id", h.Events.Delete)
	r.POST("/update_session_status/:id", h.Events.UpdateStatus)
	r.GET("/student/:id/sessions", h.Events.StudentSessions)

	events := r.Group("/api/events")
	events.GET("", h.Events.Calendar)
	events.POST("", h.Events.Create)
	events.POST("/:id", h.Events.Update)
	events.POST("/:id/makeup", h.Events.Makeup)

	r.GET("/trial_log", h.TrialLogs.Form)
	r.POST("/trial_log", h.TrialLogs.Submit)
	r.GET("/student/:id/trial_logs", h.TrialLogs.StudentLogs)
	r.GET("/trial_logs_by_date", h.TrialLogs.ByDate)

	r.GET("/soap_note", h.SoapNotes.Form)
	r.POST("/soap_note", h.SoapNotes.Generate)
	r.POST("/soap_note/add", h.SoapNotes.Add)
	r.GET("/soap_notes/bulk_add", h.SoapNotes.BulkForm)
	r.POST("/soap_notes/bulk_add", h.SoapNotes.BulkAdd)
	r.GET("/soap_notes", h.SoapNotes.List)
	r.GET("/soap_notes/export", h.SoapNotes.Export)

	r.GET("/quarterly_report", h.Quarterly.Form)
	r.POST("/quarterly_report", h.Quarterly.Submit)
	r.POST("/save_quarterly_report", h.Quarterly.Save)
	r.GET("/quarterly_report_history", h.Quarterly.History)
	r.GET("/quarterly_reports/:id/pdf", h.Quarterly.PDF)

	r.GET("/monthly_sessions_report", h.Reports.MonthlySessions)
	r.GET("/reports/makeup_needed", h.Reports.MakeupNeeded)
	r.GET("/makeups_by_month", h.Reports.MakeupsByMonth)
	r.GET("/monthly_quotas", h.Quotas.List)
	r.POST("/monthly_quotas", h.Quotas.Upsert)

	r.GET("/activities", h.Activities.List)
	r.POST("/activities/add", h.Activities.Add)
	r.GET("/activities/edit/:id", h.Activities.Get)
	r.POST("/activities/edit/:id", h.Activities.Rename)
	r.POST("/activities/delete/:id", h.Activities.Delete)
}
