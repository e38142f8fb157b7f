package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	LoggerNameEnergyCore    string = "energy_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameDB            string = "db"
	LoggerNameReportCache   string = "report_cache"
	LoggerNameInbox         string = "inbox"
	LoggerNameEntsoe        string = "entsoe"
	LoggerFieldCategory     string = "category"
	LoggerCategoryTelemetry string = "telemetry"
	LoggerCategoryPrice     string = "price"
	LoggerCategoryForecast  string = "forecast"
	LoggerCategoryFusion    string = "fusion"
	LoggerCategoryReport    string = "report"
)
