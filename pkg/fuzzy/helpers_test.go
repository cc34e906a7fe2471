package fuzzy

import "github.com/inferlab/logicgraph/pkg/model"

func modelMembership(kind string, params map[string]float64) model.MembershipJSON {
	return model.MembershipJSON{Type: kind, Params: params}
}
