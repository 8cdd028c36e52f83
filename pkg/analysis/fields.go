package analysis

import (
	"errors"
	"fmt"
)

// Category is one group of required contract information and its marker keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Catalog is the ordered list of required clause categories.
// Order drives the order of every derived result.
type Catalog []Category

// DefaultCatalog returns the standard employment contract checklist.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "사용자 정보", Keywords: []string{"성명", "업체명", "소재지", "전화번호", "사업자등록번호", "주민등록번호"}},
		{Name: "근로자 정보", Keywords: []string{"근로자", "성명", "생년월일", "본국주소"}},
		{Name: "근로계약기간", Keywords: []string{"근로계약기간", "수습기간", "신규", "재입국"}},
		{Name: "근로장소", Keywords: []string{"근로장소", "장소"}},
		{Name: "업무내용", Keywords: []string{"업종", "사업내용", "직무내용"}},
		{Name: "근로시간", Keywords: []string{"근로시간", "시", "분", "교대제"}},
		{Name: "휴게시간", Keywords: []string{"휴게시간", "분"}},
		{Name: "휴일", Keywords: []string{"휴일", "일요일", "토요일", "공휴일", "유급", "무급"}},
		{Name: "임금", Keywords: []string{"통상임금", "기본급", "수당", "상여금", "수습", "가산수당"}},
		{Name: "임금지급일", Keywords: []string{"매월", "매주", "지급일", "요일", "공휴일", "전일"}},
		{Name: "지급방법", Keywords: []string{"계좌지급", "현금지급", "통장", "도장", "직접지급"}},
		{Name: "숙식제공", Keywords: []string{"숙소", "제공", "미제공", "자비", "식사", "숙소제공", "식사제공", "조식", "중식", "석식"}},
		{Name: "규정준수", Keywords: []string{"취업규칙", "단체협약", "성실", "이행"}},
	}
}

var ErrInvalidCatalog = errors.New("invalid required field catalog")

// Validate rejects catalogs that cannot produce a well formed result.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for i, category := range c {
		if category.Name == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidCatalog, i)
		}
		if seen[category.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, category.Name)
		}
		seen[category.Name] = true

		keywords := make(map[string]bool, len(category.Keywords))
		for _, keyword := range category.Keywords {
			if keyword == "" {
				return fmt.Errorf("%w: empty keyword in %q", ErrInvalidCatalog, category.Name)
			}
			if keywords[keyword] {
				return fmt.Errorf("%w: duplicate keyword %q in %q", ErrInvalidCatalog, keyword, category.Name)
			}
			keywords[keyword] = true
		}
	}
	return nil
}

// TotalKeywords counts keywords across all categories.
func (c Catalog) TotalKeywords() int {
	total := 0
	for _, category := range c {
		total += len(category.Keywords)
	}
	return total
}

// FieldResult is the outcome of a required field analysis.
// For every category, Found and Missing partition the catalog keywords.
type FieldResult struct {
	Found          map[string][]string
	Missing        map[string][]string
	CompletionRate float64
}

// HasMissing reports whether any catalog keyword was not found.
func (r FieldResult) HasMissing() bool {
	return len(r.Missing) > 0
}

// AnalyzeFields maps normalized text to found and missing clause keywords.
// Missing keywords keep catalog order.
func AnalyzeFields(text NormalizedText, catalog Catalog) FieldResult {
	tokens := text.Tokens()
	result := FieldResult{
		Found:   make(map[string][]string),
		Missing: make(map[string][]string),
	}

	matched := 0
	for _, category := range catalog {
		var found, missing []string
		for _, keyword := range category.Keywords {
			if anyPresent(tokens, keyword, DefaultThreshold) {
				found = append(found, keyword)
			} else {
				missing = append(missing, keyword)
			}
		}
		if len(found) > 0 {
			result.Found[category.Name] = found
		}
		if len(missing) > 0 {
			result.Missing[category.Name] = missing
		}
		matched += len(found)
	}

	if total := catalog.TotalKeywords(); total > 0 {
		result.CompletionRate = 100 * float64(matched) / float64(total)
	}
	return result
}
