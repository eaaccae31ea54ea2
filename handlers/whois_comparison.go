/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-29
 * @Description: WHOIS记录比较处理程序
 */
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whoisrecord/pkg/logger"
	"whoisrecord/record"
	"whoisrecord/services"
	"whoisrecord/types"
	"whoisrecord/utils"
)

// CompareSide 比较的一侧：直接给出原始响应，或给出查询对象
type CompareSide struct {
	Query  string        `json:"query,omitempty"`
	Server *types.Server `json:"server,omitempty"`
	Parts  []types.Part  `json:"parts,omitempty"`
}

// CompareRequest POST /api/v1/whois/compare 请求体
type CompareRequest struct {
	Left  CompareSide `json:"left"`
	Right CompareSide `json:"right"`
}

// SideSummary 比较结果中的一侧
type SideSummary struct {
	Query    string   `json:"query,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Cached   bool     `json:"cached,omitempty"`
	Backends []string `json:"backends"`
}

// CompareResult 比较结果
type CompareResult struct {
	Changed   bool        `json:"changed"`
	Unchanged bool        `json:"unchanged"`
	Left      SideSummary `json:"left"`
	Right     SideSummary `json:"right"`
}

var errEmptySide = errors.New("each side needs either parts or a query")

// WhoisComparisonHandler 比较两条记录是否变化。
// 需要网络查询的一侧通过工作池并发查询。
func WhoisComparisonHandler(c *gin.Context) {
	start := time.Now()
	log := logger.WithRequest(c, "Compare")

	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format: "+err.Error())
		return
	}

	m, ok := recordManager(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Record service not initialized")
		return
	}

	sides := []*CompareSide{&req.Left, &req.Right}
	records := make([]*record.Record, len(sides))
	summaries := make([]SideSummary, len(sides))

	var queries []utils.Query
	var pending []int
	for i, side := range sides {
		switch {
		case len(side.Parts) > 0:
			records[i] = m.Build(side.Server, side.Parts)
		case side.Query != "":
			q, err := utils.ParseQuery(side.Query)
			if err != nil {
				writeLookupError(c, err)
				return
			}
			queries = append(queries, q)
			pending = append(pending, i)
			summaries[i].Query = q.Value
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", errEmptySide.Error())
			return
		}
	}

	if len(queries) > 0 {
		results, err := lookupMany(c, m, queries)
		if err != nil {
			writeLookupError(c, err)
			return
		}
		for j, i := range pending {
			records[i] = results[j].Record
			summaries[i].Provider = results[j].Provider
			summaries[i].Cached = results[j].Cached
		}
	}

	for i, rec := range records {
		summaries[i].Backends = []string{}
		for _, b := range rec.Parser().Backends() {
			summaries[i].Backends = append(summaries[i].Backends, b.Kind())
		}
	}

	changed, err := records[0].Changed(records[1])
	if err != nil {
		log.Warnf("compare failed: %v", err)
		code := http.StatusInternalServerError
		if errors.Is(err, record.ErrTypeMismatch) || errors.Is(err, record.ErrArgument) {
			code = http.StatusUnprocessableEntity
		}
		utils.ErrorResponse(c, code, "COMPARE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, CompareResult{
		Changed:   changed,
		Unchanged: !changed,
		Left:      summaries[0],
		Right:     summaries[1],
	}, utils.NewMeta(c, start))
}

func lookupMany(c *gin.Context, m *services.RecordManager, queries []utils.Query) ([]*services.LookupResult, error) {
	ctx := c.Request.Context()
	if pool := workerPool(c); pool != nil {
		return m.LookupAll(ctx, pool, queries)
	}
	results := make([]*services.LookupResult, len(queries))
	for i, q := range queries {
		res, err := m.Lookup(ctx, q)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}
