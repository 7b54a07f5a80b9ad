package domain

type WidgetDefaults struct {
	Title    string `json:"title"`
	Coin     CoinID `json:"coin"`
	Decimals int    `json:"decimals"`
}

type Widget struct {
	Path     string         `json:"path"`
	Title    string         `json:"title"`
	Purpose  string         `json:"purpose"`
	Defaults WidgetDefaults `json:"defaults"`
}

type PluginInfo struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Version string   `json:"version"`
	Author  string   `json:"author"`
	Vendor  string   `json:"vendor"`
	Widgets []Widget `json:"widgets"`
}

// Plugin describes this service to dashboard hosts.
var Plugin = PluginInfo{
	Name:    "Crypto coin exchange rate",
	Purpose: "Widget that shows the actual exchange rate of various crypto coins",
	Version: "2.1.0",
	Author:  "Romein van Buren",
	Vendor:  "Smart Yellow",
	Widgets: []Widget{
		{
			Path:    "rate.svelte",
			Title:   "Crypto coin exchange rates",
			Purpose: "Shows the live crypto coin exchange rate.",
			Defaults: WidgetDefaults{
				Title:    "Crypto coin rate",
				Coin:     "btc",
				Decimals: 2,
			},
		},
	},
}
