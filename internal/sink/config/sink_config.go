// Separate package is workaround to import cycles.
package sink_config

type Config struct {
	JSON        JSON        `hcl:"json"`
	MQTT        MQTT        `hcl:"mqtt"`
	Jeedom      Jeedom      `hcl:"jeedom"`
	HTTPRequest HTTPRequest `hcl:"http_request"`
}

// JSON posts flat JSON object.
type JSON struct {
	Host string `hcl:"host"`
	Port int    `hcl:"port"`
	Path string `hcl:"path"`
}

// MQTT publishes flat JSON object.
type MQTT struct {
	Broker   string `hcl:"broker"`
	Topic    string `hcl:"topic"`
	ClientID string `hcl:"client_id"`
	Username string `hcl:"username"`
	Password string `hcl:"password"` // secret
	QOS      int    `hcl:"qos"`
	Retain   bool   `hcl:"retain"`
}

// Jeedom teleinfo plugin, device JSON.
type Jeedom struct {
	Host   string `hcl:"host"`
	Port   int    `hcl:"port"`
	URL    string `hcl:"url"`
	APIKey string `hcl:"apikey"` // secret
	ADCO   string `hcl:"adco"`
}

// HTTPRequest is GET with %NAME% placeholders in Path.
type HTTPRequest struct {
	Host string `hcl:"host"`
	Port int    `hcl:"port"`
	Path string `hcl:"path"`
}

func (c JSON) Enabled() bool        { return c.Host != "" }
func (c MQTT) Enabled() bool        { return c.Broker != "" }
func (c Jeedom) Enabled() bool      { return c.Host != "" && c.ADCO != "" }
func (c HTTPRequest) Enabled() bool { return c.Host != "" }
