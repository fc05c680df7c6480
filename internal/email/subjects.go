package email

const (
	subjectAnalyticsReportFmt = "Broker analytics report for %s"
)
