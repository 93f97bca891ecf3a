package cmd

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost          string
	KafkaConsumerGroup string

	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	MinioInvoiceBucket string

	SMTPAddr string
	SMTPFrom string

	PaymentGatewayURL    string
	PaymentGatewayAPIKey string

	TaskWorkers   int
	TaskBatchSize int
}
