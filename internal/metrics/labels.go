package metrics

import "github.com/goodnatureofminers/blockqueue/internal/model"

const namespace = "blockqueue"

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func networkLabel(network model.Network) string {
	if network == "" {
		return "unknown"
	}
	return string(network)
}
