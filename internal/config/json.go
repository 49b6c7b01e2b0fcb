// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration fields, so durations can be written as "30m"
// rather than nanosecond integers.
type StructuredJSONConfig struct {
	Crypto struct {
		Iterations       int      `json:"iterations"`
		MinOperationTime Duration `json:"min_operation_time"`
	} `json:"crypto,omitempty"`

	Session struct {
		Timeout Duration `json:"timeout"`
	} `json:"session,omitempty"`

	RateLimit struct {
		Verify  JSONLimiter `json:"verify,omitempty"`
		Decrypt JSONLimiter `json:"decrypt,omitempty"`
	} `json:"rate_limit,omitempty"`

	Cache struct {
		Capacity int      `json:"capacity"`
		TTL      Duration `json:"ttl"`
	} `json:"cache,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

// JSONLimiter is the JSON-file shape of a [Limiter] profile.
type JSONLimiter struct {
	MaxAttempts int      `json:"max_attempts"`
	Window      Duration `json:"window"`
	BackoffCap  int      `json:"backoff_cap"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Crypto: Crypto{
			Iterations:       jsonCfg.Crypto.Iterations,
			MinOperationTime: time.Duration(jsonCfg.Crypto.MinOperationTime),
		},
		Session: Session{
			Timeout: time.Duration(jsonCfg.Session.Timeout),
		},
		RateLimit: RateLimit{
			Verify:  jsonCfg.RateLimit.Verify.toLimiter(),
			Decrypt: jsonCfg.RateLimit.Decrypt.toLimiter(),
		},
		Cache: Cache{
			Capacity: jsonCfg.Cache.Capacity,
			TTL:      time.Duration(jsonCfg.Cache.TTL),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Local: Local{
				Path: jsonCfg.Storage.Local.Path,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

func (l JSONLimiter) toLimiter() Limiter {
	return Limiter{
		MaxAttempts: l.MaxAttempts,
		Window:      time.Duration(l.Window),
		BackoffCap:  l.BackoffCap,
	}
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
