// Package compare 将模型输出与金标准 JSON 做逐字段细粒度比对
package compare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acmgbench/varbench/internal/service/normalize"
)

const (
	ndMarker       = "N.D."
	deletionMarker = "[DEL]"
)

// FieldMetric 单字段的比对计数
type FieldMetric struct {
	StdCount    int `json:"std_count"`
	ModelCount  int `json:"model_count"`
	Correct     int `json:"correct"`
	FalseAssert int `json:"false_assert"`
	StdYes      int `json:"std_yes"`
	StdNo       int `json:"std_no"`
	CorrectYes  int `json:"correct_yes"`
	CorrectNo   int `json:"correct_no"`

	stdValues   []string
	modelValues []string
}

// Result 全文档比对汇总
type Result struct {
	StdTotal            int `json:"std_total"`
	ModelTotal          int `json:"model_total"`
	CorrectTotal        int `json:"correct_total"`
	FalseAssertTotal    int `json:"false_assert_total"`
	FieldOmissionsTotal int `json:"field_omissions_total"`
	StdYesTotal         int `json:"std_yes_total"`
	CorrectYesTotal     int `json:"correct_yes_total"`
	StdNoTotal          int `json:"std_no_total"`
	CorrectNoTotal      int `json:"correct_no_total"`
	OmissionStdTotal    int `json:"omission_std_total"`

	FieldMetrics map[string]*FieldMetric `json:"field_metrics"`
}

// Accuracy 正确数占参照总数的比例
func (r *Result) Accuracy() float64 {
	if r.StdTotal == 0 {
		return 0
	}
	return float64(r.CorrectTotal) / float64(r.StdTotal)
}

// Comparator 以金标准文档为基准的比对器,一次比对一份模型输出
type Comparator struct {
	std     map[string]interface{}
	metrics map[string]*FieldMetric
}

func NewComparator(std map[string]interface{}) *Comparator {
	return &Comparator{
		std:     std,
		metrics: make(map[string]*FieldMetric),
	}
}

// Compare 双向遍历:先以金标准为主干登记参照值,再以模型输出为主干计分
func (c *Comparator) Compare(model map[string]interface{}) *Result {
	c.traverse(c.std, model, true, nil)
	c.traverse(model, c.std, false, nil)
	c.processGroups()
	return c.totals()
}

func (c *Comparator) metric(fieldPath string) *FieldMetric {
	m, ok := c.metrics[fieldPath]
	if !ok {
		m = &FieldMetric{}
		c.metrics[fieldPath] = m
	}
	return m
}

// traverse 递归下钻,列表按下标配对,路径不含列表层
func (c *Comparator) traverse(node, peer interface{}, isStd bool, path []string) {
	switch n := node.(type) {
	case map[string]interface{}:
		peerMap, _ := peer.(map[string]interface{})
		for key, val := range n {
			var pv interface{}
			if peerMap != nil {
				pv = peerMap[key]
			}
			next := append(append([]string{}, path...), key)
			c.traverse(val, pv, isStd, next)
		}
	case []interface{}:
		peerList, _ := peer.([]interface{})
		for i, item := range n {
			var pv interface{}
			if i < len(peerList) {
				pv = peerList[i]
			}
			c.traverse(item, pv, isStd, path)
		}
	default:
		if isStd {
			c.leaf(node, peer, true, strings.Join(path, "."))
		} else {
			c.leaf(peer, node, false, strings.Join(path, "."))
		}
	}
}

func (c *Comparator) leaf(stdVal, modelVal interface{}, isStd bool, fieldPath string) {
	m := c.metric(fieldPath)

	// 模型侧的 N.D. 直接入账,不参与后续计分
	if !isStd && modelVal != nil && normalize.IsND(stringify(modelVal)) {
		m.modelValues = append(m.modelValues, ndMarker)
		m.ModelCount++
		return
	}

	if skipFields[fieldPath] {
		if isStd {
			m.stdValues = append(m.stdValues, stringify(stdVal))
			m.StdCount++
			return
		}
		modelStr := stringify(modelVal)
		m.modelValues = append(m.modelValues, modelStr)
		m.ModelCount++
		if stdVal != nil && strings.EqualFold(stringify(stdVal), modelStr) {
			m.Correct++
		}
		return
	}

	if booleanFields[fieldPath] {
		c.boolean(stdVal, modelVal, isStd, m)
		return
	}

	if exactMatchFields[fieldPath] {
		if isStd {
			m.stdValues = append(m.stdValues, normalize.CleanAlnum(stringify(stdVal)))
			m.StdCount++
			return
		}
		modelClean := normalize.CleanAlnum(stringify(modelVal))
		m.modelValues = append(m.modelValues, modelClean)
		m.ModelCount++

		var matched bool
		if _, isGroup := fieldGroups[fieldPath]; isGroup {
			// 三元组字段在组级比对前先按等值记个体分
			for _, std := range m.stdValues {
				if std == modelClean {
					matched = true
					break
				}
			}
		} else {
			for _, std := range m.stdValues {
				if strings.Contains(modelClean, std) || strings.Contains(std, modelClean) {
					matched = true
					break
				}
			}
		}
		if matched {
			m.Correct++
		} else {
			m.FalseAssert++
		}
	}
}

// boolean 仅当参照值明确为 yes/no 时才计对错
func (c *Comparator) boolean(stdVal, modelVal interface{}, isStd bool, m *FieldMetric) {
	std := strings.ToLower(stringify(stdVal))
	if isStd {
		m.StdCount++
		switch std {
		case "yes":
			m.StdYes++
		case "no":
			m.StdNo++
		}
		return
	}

	m.ModelCount++
	model := strings.ToLower(stringify(modelVal))
	switch std {
	case "yes":
		if model == "yes" {
			m.CorrectYes++
			m.Correct++
		} else {
			m.FalseAssert++
		}
	case "no":
		if model == "no" {
			m.CorrectNo++
			m.Correct++
		} else {
			m.FalseAssert++
		}
	}
}

type groupTuple struct {
	ref, alt, pos string
}

func (t groupTuple) hasEmpty() bool {
	return t.ref == "" || t.alt == "" || t.pos == ""
}

func (t groupTuple) allBlank() bool {
	blank := func(s string) bool { return s == "" || s == ndMarker }
	return blank(t.ref) && blank(t.alt) && blank(t.pos)
}

// processGroups ref/alt/position 三元组整体比对,组级计数覆盖成员字段的个体计数
func (c *Comparator) processGroups() {
	for groupName, members := range groupMembers {
		stdTuples := c.collectTuples(groupName, members, false)
		var validStd []groupTuple
		for _, t := range stdTuples {
			if t.allBlank() {
				continue
			}
			validStd = append(validStd, t)
		}
		stdSet := make(map[groupTuple]bool, len(validStd))
		for _, t := range validStd {
			stdSet[t] = true
		}

		modelTuples := c.collectTuples(groupName, members, true)
		modelSet := make(map[groupTuple]bool, len(modelTuples))
		for _, t := range modelTuples {
			modelSet[t] = true
		}

		correct := 0
		falseAssert := 0
		for t := range modelSet {
			if stdSet[t] {
				correct++
			} else if !t.hasEmpty() {
				falseAssert++
			}
		}

		for _, fieldPath := range members {
			m := c.metric(fieldPath)
			m.StdCount = len(validStd)
			m.ModelCount = len(modelTuples)
			m.Correct = correct
			m.FalseAssert = falseAssert
		}
	}
}

func (c *Comparator) collectTuples(groupName string, members [3]string, isModel bool) []groupTuple {
	lists := [3][]string{}
	maxLen := 0
	for i, fieldPath := range members {
		m := c.metric(fieldPath)
		if isModel {
			lists[i] = m.modelValues
		} else {
			lists[i] = m.stdValues
		}
		if len(lists[i]) > maxLen {
			maxLen = len(lists[i])
		}
	}

	tuples := make([]groupTuple, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		t := groupTuple{
			ref: normalizeComponent(lists[0], i, groupName, componentRef),
			alt: normalizeComponent(lists[1], i, groupName, componentAlt),
			pos: normalizeComponent(lists[2], i, groupName, componentPos),
		}
		if isModel && groupName == groupProtein && strings.Contains(strings.ToLower(t.alt), "deletion") {
			t.alt = deletionMarker
		}
		tuples = append(tuples, t)
	}
	return tuples
}

type component int

const (
	componentRef component = iota
	componentAlt
	componentPos
)

func normalizeComponent(values []string, index int, groupName string, kind component) string {
	value := ""
	if index < len(values) {
		value = values[index]
	}
	if strings.ToUpper(strings.TrimSpace(value)) == ndMarker {
		return ndMarker
	}
	if kind == componentPos {
		return normalize.Position(value)
	}
	if groupName == groupProtein {
		return normalize.AminoAcid(value)
	}
	return normalize.NucleicAcid(value, true)
}

// totals 汇总全部字段,三元组每组只计一次
func (c *Comparator) totals() *Result {
	res := &Result{FieldMetrics: c.metrics}
	processed := make(map[string]bool)

	for fieldPath, m := range c.metrics {
		if groupName, ok := fieldGroups[fieldPath]; ok {
			if processed[groupName] {
				continue
			}
			main := c.metric(groupMembers[groupName][0])
			res.StdTotal += main.StdCount
			res.ModelTotal += main.ModelCount
			res.CorrectTotal += main.Correct
			res.FalseAssertTotal += main.FalseAssert
			processed[groupName] = true
			continue
		}

		res.StdTotal += m.StdCount
		res.ModelTotal += m.ModelCount
		res.CorrectTotal += m.Correct
		res.FalseAssertTotal += m.FalseAssert
		if d := m.StdCount - m.ModelCount; d > 0 {
			res.FieldOmissionsTotal += d
		}

		if booleanFields[fieldPath] {
			res.StdYesTotal += m.StdYes
			res.CorrectYesTotal += m.CorrectYes
			res.StdNoTotal += m.StdNo
			res.CorrectNoTotal += m.CorrectNo
		}

		if omissionFields[fieldPath] {
			nd := 0
			for _, v := range m.modelValues {
				if v == ndMarker {
					nd++
				}
			}
			if d := m.StdCount - m.Correct - nd; d > 0 {
				res.FieldOmissionsTotal += d
			}
		}
	}

	for fieldPath := range omissionFields {
		if m, ok := c.metrics[fieldPath]; ok {
			res.OmissionStdTotal += m.StdCount
		}
	}
	return res
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
