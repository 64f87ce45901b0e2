package config

import (
	"mediline-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		PostgresDB: PostgresDB{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "defaultPassword"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "mediline"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", "customRedisPass"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Shanghai"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/v1"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
		Payment: AppPayment{
			OrderExpiryInMinutes:        utils.GetEnvInt("PAYMENT_ORDER_EXPIRY_IN_MINUTES", 120),
			ExpirySweepCronSpec:         utils.GetEnvString("PAYMENT_EXPIRY_SWEEP_CRON_SPEC", "@every 1m"),
			ExpirySweepLockTTLInSeconds: utils.GetEnvInt("PAYMENT_EXPIRY_SWEEP_LOCK_TTL_IN_SECONDS", 50),
			GatewayTimeoutInSeconds:     utils.GetEnvInt("PAYMENT_GATEWAY_TIMEOUT_IN_SECONDS", 10),
			ProcessTimeoutInSeconds:     utils.GetEnvInt("PAYMENT_PROCESS_TIMEOUT_IN_SECONDS", 10),
			NotificationQueue:           utils.GetEnvString("PAYMENT_NOTIFICATION_QUEUE", "payment-notifications"),
			CallbackBucketName:          utils.GetEnvString("PAYMENT_CALLBACK_BUCKET_NAME", "payment-callbacks"),
		},
		Wechat: AppWechat{
			AppID:     utils.GetEnvString("WECHAT_APP_ID", ""),
			MchID:     utils.GetEnvString("WECHAT_MCH_ID", ""),
			APIKey:    utils.GetEnvString("WECHAT_API_KEY", ""),
			NotifyURL: utils.GetEnvString("WECHAT_NOTIFY_URL", ""),
			PayURL:    utils.GetEnvString("WECHAT_PAY_URL", "https://api.mch.weixin.qq.com/pay/unifiedorder"),
		},
		Alipay: AppAlipay{
			AppID:      utils.GetEnvString("ALIPAY_APP_ID", ""),
			PrivateKey: utils.GetEnvString("ALIPAY_PRIVATE_KEY", ""),
			PublicKey:  utils.GetEnvString("ALIPAY_PUBLIC_KEY", ""),
			NotifyURL:  utils.GetEnvString("ALIPAY_NOTIFY_URL", ""),
			GatewayURL: utils.GetEnvString("ALIPAY_GATEWAY_URL", "https://openapi.alipay.com/gateway.do"),
		},
	}
}
