package api

const (
	HealthCheckRoute = "/health"
	AboutRoute       = "/about"

	TokensRoute       = "/api/tokens"
	TokenRoute        = TokensRoute + "/{id}"
	RenewTokenRoute   = TokenRoute + "/renew"
	SeedTokensRoute   = TokensRoute + "/seed"
	ViewTokensRoute   = TokensRoute + "/view"
	TokenServiceRoute = TokensRoute + "/services"

	TaskParent       = "/api/tasks"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "/{name}/trigger"
	LogsForTaskRoute = TaskParent + "/{name}/logs"
)
