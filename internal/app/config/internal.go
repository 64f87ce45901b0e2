package config

type InternalConfig struct {
	App     App
	JWT     AppJWT
	Payment AppPayment
	Wechat  AppWechat
	Alipay  AppAlipay
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppPayment struct {
	OrderExpiryInMinutes        int
	ExpirySweepCronSpec         string
	ExpirySweepLockTTLInSeconds int
	GatewayTimeoutInSeconds     int
	ProcessTimeoutInSeconds     int
	NotificationQueue           string
	CallbackBucketName          string
}

type AppWechat struct {
	AppID     string
	MchID     string
	APIKey    string
	NotifyURL string
	PayURL    string
}

type AppAlipay struct {
	AppID      string
	PrivateKey string
	PublicKey  string
	NotifyURL  string
	GatewayURL string
}
