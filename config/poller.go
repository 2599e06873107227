package config

import "time"

// Poller describes how the poller reacts to losing its connection to dvmn
type Poller struct {
	// FailureThreshold consecutive connection failures tolerated before the poller starts waiting between attempts
	FailureThreshold int `json:"failureThreshold" yaml:"failure_threshold" mapstructure:"failure_threshold"`
	// RetryDelay time to wait between attempts once the threshold is passed
	RetryDelay time.Duration `json:"retryDelay" yaml:"retry_delay" mapstructure:"retry_delay"`
}
