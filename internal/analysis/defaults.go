// Package analysis synthesizes a default root-cause analysis for stored
// records that were created without one.
package analysis

import (
	"fmt"
	"strings"

	"github.com/lograca/lograca/internal/model"
)

type template struct {
	causes    []model.RootCause
	solutions []model.Solution
}

// serviceDefaults maps well-known service identifiers to canned guidance.
var serviceDefaults = map[string]template{
	"dns-service": {
		causes: []model.RootCause{
			{Title: "DNS配置错误", Description: "DNS服务器配置不正确或域名解析失败"},
		},
		solutions: []model.Solution{
			{Kind: model.SolutionShortTerm, Description: "检查DNS服务器配置和网络连接"},
		},
	},
	"http-service": {
		causes: []model.RootCause{
			{Title: "HTTP请求问题", Description: "服务器返回错误状态码或请求超时"},
		},
		solutions: []model.Solution{
			{Kind: model.SolutionShortTerm, Description: "检查服务器状态和网络连接"},
		},
	},
	model.CatchAllService: {
		causes: []model.RootCause{
			{Title: "参数转换错误", Description: "flavor=abcde未映射到flavor_id"},
			{Title: "测试数据缺陷", Description: "Mock返回空列表，但测试预期非空数据"},
		},
		solutions: []model.Solution{
			{Kind: model.SolutionShortTerm, Description: "检查compute_api.API.get_all中search_opts的过滤逻辑"},
			{Kind: model.SolutionLongTerm, Description: "为pending task状态增加自动重试机制"},
		},
	},
}

// Synthesize builds a deterministic default analysis for a record lacking
// one. Known services get their canned causes and solutions; unknown
// services fall back on level-keyed generic guidance, where levels below
// WARN produce an informational summary with no causes or solutions.
func Synthesize(service string, level model.Level, message string) model.Analysis {
	a := model.Analysis{
		Summary:    fmt.Sprintf("%s服务出现%s级别的异常，可能影响系统正常运行。", service, strings.ToLower(string(level))),
		RootCauses: []model.RootCause{},
		Solutions:  []model.Solution{},
	}

	if tpl, ok := serviceDefaults[service]; ok {
		a.RootCauses = append(a.RootCauses, tpl.causes...)
		a.Solutions = append(a.Solutions, tpl.solutions...)
		return a
	}

	switch level {
	case model.LevelError, model.LevelCritical:
		a.RootCauses = append(a.RootCauses, model.RootCause{
			Title:       "未知错误",
			Description: "系统无法自动分析此类型错误的具体原因",
		})
		a.Solutions = append(a.Solutions, model.Solution{
			Kind:        model.SolutionShortTerm,
			Description: "请检查相关日志和系统状态",
		})
	case model.LevelWarn:
		a.Solutions = append(a.Solutions, model.Solution{
			Kind:        model.SolutionGeneral,
			Description: "关注该警告的发生频率，必要时进一步排查",
		})
	default:
		a.Summary = fmt.Sprintf("%s服务记录了一条%s级别的日志，无需特殊处理。", service, strings.ToLower(string(level)))
	}

	return a
}
