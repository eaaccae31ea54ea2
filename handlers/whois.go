/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-01-18 00:57:29
 * @Description: Whois查询处理程序
 */
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whoisrecord/middleware"
	"whoisrecord/pkg/logger"
	"whoisrecord/record"
	"whoisrecord/services"
	"whoisrecord/types"
	"whoisrecord/utils"
)

// QueryKey 查询校验中间件写入的 utils.Query
const QueryKey = "query"

// 记录自身成员，目录之外在接口中也可以访问
const (
	memberServer     = "server"
	memberParts      = "parts"
	memberContent    = "content"
	memberProperties = "properties"
)

// RecordView 查询接口返回的记录视图
type RecordView struct {
	Query      string              `json:"query"`
	Kind       utils.QueryKind     `json:"kind"`
	Server     *types.Server       `json:"server,omitempty"`
	Properties record.Snapshot     `json:"properties"`
	Errors     map[string]string   `json:"errors,omitempty"`
	Response   ResponseFlags       `json:"response"`
	Support    map[string][]string `json:"support,omitempty"`
	Backends   []string            `json:"backends"`
	Parts      []types.Part        `json:"parts,omitempty"`
}

// ResponseFlags response_* 元谓词
type ResponseFlags struct {
	Incomplete  bool `json:"incomplete"`
	Throttled   bool `json:"throttled"`
	Unavailable bool `json:"unavailable"`
}

func recordManager(c *gin.Context) (*services.RecordManager, bool) {
	v, ok := c.Get(middleware.RecordManagerKey)
	if !ok {
		return nil, false
	}
	m, ok := v.(*services.RecordManager)
	return m, ok && m != nil
}

func workerPool(c *gin.Context) *services.WorkerPool {
	v, _ := c.Get(middleware.WorkerPoolKey)
	pool, _ := v.(*services.WorkerPool)
	return pool
}

// queryFromContext 优先使用中间件校验过的查询，否则解析路径参数
func queryFromContext(c *gin.Context) (utils.Query, error) {
	if v, ok := c.Get(QueryKey); ok {
		if q, ok := v.(utils.Query); ok {
			return q, nil
		}
	}
	return utils.ParseQuery(c.Param("query"))
}

// lookup 有工作池时在池中执行，控制并发的出站查询数量
func lookup(ctx context.Context, c *gin.Context, m *services.RecordManager, q utils.Query) (*services.LookupResult, error) {
	pool := workerPool(c)
	if pool == nil {
		return m.Lookup(ctx, q)
	}
	results, err := m.LookupAll(ctx, pool, []utils.Query{q})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// writeLookupError 把查询错误映射为HTTP状态
func writeLookupError(c *gin.Context, err error) {
	logger.WithRequest(c, "WHOIS").Warnf("lookup failed: %v", err)
	switch {
	case errors.Is(err, utils.ErrInvalidQuery):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, services.ErrNoProviders):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "NO_PROVIDERS", "No WHOIS provider available")
	case errors.Is(err, services.ErrAllProvidersFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "LOOKUP_FAILED", "All WHOIS providers failed")
	case errors.Is(err, context.DeadlineExceeded):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, "TIMEOUT", "WHOIS lookup timed out")
	case errors.Is(err, context.Canceled):
		utils.ErrorResponse(c, 499, "CANCELED", "Request canceled")
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Lookup failed")
	}
}

func lookupMeta(c *gin.Context, start time.Time, res *services.LookupResult) *utils.MetaInfo {
	meta := utils.NewMeta(c, start)
	meta.Provider = res.Provider
	meta.Cached = res.Cached
	if res.Cached {
		meta.CachedAt = res.CachedAt.Format(time.RFC3339)
	}
	c.Set(middleware.ProviderKey, res.Provider)
	return meta
}

// NewRecordView 计算全部属性；单个属性出错时记录错误并继续
func NewRecordView(q utils.Query, rec *record.Record, withSupport, withParts bool) *RecordView {
	parser := rec.Parser()
	names := rec.Catalog().Properties()

	view := &RecordView{
		Query:      q.Value,
		Kind:       q.Kind,
		Server:     rec.Server(),
		Properties: make(record.Snapshot, 0, len(names)),
		Response: ResponseFlags{
			Incomplete:  rec.ResponseIncomplete(),
			Throttled:   rec.ResponseThrottled(),
			Unavailable: rec.ResponseUnavailable(),
		},
	}
	for _, b := range parser.Backends() {
		view.Backends = append(view.Backends, b.Kind())
	}

	for _, name := range names {
		v, err := parser.Property(name)
		if err != nil {
			if view.Errors == nil {
				view.Errors = make(map[string]string)
			}
			view.Errors[name] = err.Error()
			v = nil
		}
		view.Properties = append(view.Properties, record.Field{Name: name, Value: v})
	}

	if withSupport {
		view.Support = make(map[string][]string, len(names))
		for _, name := range names {
			states := parser.Support(name)
			out := make([]string, len(states))
			for i, s := range states {
				out[i] = s.String()
			}
			view.Support[name] = out
		}
	}
	if withParts {
		view.Parts = rec.Parts()
	}
	return view
}

// WhoisHandler 查询并返回记录的全部属性
// GET /api/v1/whois/:query?support=true&parts=true
func WhoisHandler(c *gin.Context) {
	start := time.Now()

	q, err := queryFromContext(c)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	m, ok := recordManager(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Record service not initialized")
		return
	}

	res, err := lookup(c.Request.Context(), c, m, q)
	if err != nil {
		writeLookupError(c, err)
		return
	}

	view := NewRecordView(q, res.Record, c.Query("support") == "true", c.Query("parts") == "true")
	utils.SuccessResponse(c, view, lookupMeta(c, start, res))
}

// MemberHandler 按目录名称调用单个成员，名称可以带 "?"
// GET /api/v1/whois/:query/:member
func MemberHandler(c *gin.Context) {
	start := time.Now()
	member := c.Param("member")

	m, ok := recordManager(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Record service not initialized")
		return
	}

	// 未知成员不触发网络查询
	if !servableMember(m.Catalog(), member) {
		utils.ErrorResponse(c, http.StatusNotFound, "UNKNOWN_MEMBER", (&record.UnknownMemberError{Name: member}).Error())
		return
	}

	q, err := queryFromContext(c)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	res, err := lookup(c.Request.Context(), c, m, q)
	if err != nil {
		writeLookupError(c, err)
		return
	}

	value, err := callMember(res.Record, member)
	if err != nil {
		var unknown *record.UnknownMemberError
		if errors.As(err, &unknown) {
			utils.ErrorResponse(c, http.StatusNotFound, "UNKNOWN_MEMBER", err.Error())
			return
		}
		logger.WithRequest(c, "WHOIS").Warnf("member %s of %s failed: %v", member, q.Value, err)
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "MEMBER_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"query":  q.Value,
		"member": member,
		"value":  value,
	}, lookupMeta(c, start, res))
}

// servableMember 目录名称加上可以序列化的记录成员
func servableMember(cat *record.Catalog, member string) bool {
	switch member {
	case memberServer, memberParts, memberContent, memberProperties:
		return true
	}
	_, ok := cat.Lookup(member)
	return ok
}

func callMember(rec *record.Record, member string) (any, error) {
	switch member {
	case memberServer:
		return rec.Server(), nil
	case memberParts:
		return rec.Parts(), nil
	case memberContent:
		return rec.Content(), nil
	case memberProperties:
		return rec.Properties()
	}
	return rec.Call(member)
}

// CatalogHandler 当前目录中的属性与方法名称
// GET /api/v1/catalog
func CatalogHandler(c *gin.Context) {
	m, ok := recordManager(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Record service not initialized")
		return
	}
	cat := m.Catalog()
	utils.SuccessResponse(c, gin.H{
		"properties": cat.Properties(),
		"methods":    cat.Methods(),
		"hosts":      m.Registry().Hosts(),
	}, utils.NewMeta(c, time.Now()))
}
