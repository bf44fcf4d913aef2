package spider

import (
	"crypto/md5"
	"encoding/hex"
)

// Rule names used in logs and request history.
const (
	RuleListing     = "listing"
	RuleRecipe      = "recipe"
	RuleCategories  = "categories"
	RuleSettlements = "settlements"
)

// 单个请求
type Request struct {
	URL      string
	Method   string
	RuleName string
	Page     int // listing page number, 0 for detail pages
}

func NewRequest(rule, url string) *Request {
	return &Request{
		URL:      url,
		Method:   "GET",
		RuleName: rule,
	}
}

// 请求的唯一识别码
func (r *Request) Unique() string {
	method := r.Method
	if method == "" {
		method = "GET"
	}
	block := md5.Sum([]byte(r.URL + method))

	return hex.EncodeToString(block[:])
}
