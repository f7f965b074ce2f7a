// Package alerts evaluates threshold rules against per-source health records
// and delivers webhook notifications when rules fire or resolve.
package alerts
