package sink

import (
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
)

// Build returns enabled sinks in fixed order: json, mqtt, jeedom, http_request.
// pub may be nil when MQTT is not configured.
func Build(env *Env, config sink_config.Config, client Dispatcher, pub Publisher) []Sinker {
	ss := make([]Sinker, 0, 4)
	if config.JSON.Enabled() {
		ss = append(ss, &JSON{Env: env, Config: config.JSON, Client: client})
	}
	if config.MQTT.Enabled() && pub != nil {
		ss = append(ss, &MQTT{Env: env, Publisher: pub})
	}
	if config.Jeedom.Enabled() {
		ss = append(ss, &Jeedom{Env: env, Config: config.Jeedom, Client: client})
	}
	if config.HTTPRequest.Enabled() {
		ss = append(ss, &HTTPRequest{Env: env, Config: config.HTTPRequest, Client: client})
	}
	return ss
}
