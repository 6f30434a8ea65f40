package datalist

import (
	"context"
	"fmt"

	"widgetry.dev/internal/widget"
)

// ItemFunc renders one row as trusted HTML.
type ItemFunc[T any] func(item T, index int) (string, error)

// Items renders rows. Description is only used by definition lists, where it
// fills the dd following each dt.
type Items[T any] struct {
	Render      ItemFunc[T]
	Description ItemFunc[T]
}

// FieldItems renders the named field of map rows as escaped text, with
// descriptionField filling definition list descriptions when set.
func FieldItems(field, descriptionField string) Items[map[string]string] {
	text := func(name string) ItemFunc[map[string]string] {
		return func(row map[string]string, _ int) (string, error) {
			return widget.NewMarkup().Text(row[name]).String(), nil
		}
	}
	items := Items[map[string]string]{Render: text(field)}
	if descriptionField != "" {
		items.Description = text(descriptionField)
	}
	return items
}

type page[T any] struct {
	rows     []T
	rowCount int
}

// load fetches the rows shown by d, moving d.First back onto the last page
// when the model shrank under it.
func load[T any](ctx context.Context, d *DataList, m LazyDataModel[T]) (page[T], error) {
	rows, err := m.Load(ctx, d.window())
	if err != nil {
		return page[T]{}, fmt.Errorf("error loading rows for %s: %w", d.ClientID, err)
	}
	rowCount := m.RowCount()

	if d.Paginator {
		first := d.First
		d.CalculateFirst(rowCount)
		if d.First != first {
			rows, err = m.Load(ctx, d.window())
			if err != nil {
				return page[T]{}, fmt.Errorf("error loading rows for %s: %w", d.ClientID, err)
			}
		}
	}
	return page[T]{rows: rows, rowCount: rowCount}, nil
}

// Render produces the list container, the paginators and the widget script.
func Render[T any](ctx context.Context, d *DataList, m LazyDataModel[T], items Items[T]) (widget.Rendered, error) {
	p, err := load(ctx, d, m)
	if err != nil {
		return widget.Rendered{}, err
	}
	pg := pager{list: d, rowCount: p.rowCount}

	class := listClass
	if d.StyleClass != "" {
		class += " " + d.StyleClass
	}
	markup := widget.NewMarkup().
		Start("div").
		Attr("id", d.ClientID).
		Attr("class", class).
		Attr("style", d.Style)

	if d.Header != "" {
		markup.Start("div").Attr("class", headerClass).Raw(d.Header).End()
	}
	if d.Paginator && d.PaginatorPosition != "bottom" {
		pg.encodeMarkup(markup, "top")
	}

	markup.Start("div").Attr("id", d.ClientID+"_content").Attr("class", contentClass)
	if p.rowCount == 0 {
		markup.Start("div").Attr("class", emptyMessageClass).Text(d.EmptyMessage).End()
	} else {
		rows, err := encodeRows(d, p.rows, items)
		if err != nil {
			return widget.Rendered{}, err
		}
		markup.Raw(rows)
	}
	markup.End()

	if d.Paginator && d.PaginatorPosition != "top" {
		pg.encodeMarkup(markup, "bottom")
	}
	if d.Footer != "" {
		markup.Start("div").Attr("class", footerClass).Raw(d.Footer).End()
	}

	script := widget.NewScript("DataList", d.WidgetVar, d.ClientID)
	if d.Paginator {
		pg.encodeConfig(script.Options())
	}

	return widget.Rendered{
		Widget:    "DataList",
		WidgetVar: script.WidgetVar(),
		ClientID:  d.ClientID,
		Markup:    markup.String(),
		Script:    script.Finish(),
	}, nil
}

// RenderPage answers a pagination request with the rows of the requested
// page only.
func RenderPage[T any](ctx context.Context, d *DataList, m LazyDataModel[T], items Items[T], ev PageEvent) (string, error) {
	d.First = ev.First
	if ev.Rows > 0 {
		d.Rows = ev.Rows
	}
	p, err := load(ctx, d, m)
	if err != nil {
		return "", err
	}
	return encodeRows(d, p.rows, items)
}

func encodeRows[T any](d *DataList, rows []T, items Items[T]) (string, error) {
	if items.Render == nil {
		return "", fmt.Errorf("no item renderer for %s", d.ClientID)
	}
	m := widget.NewMarkup()

	if d.Type == Free {
		for i, row := range rows {
			html, err := items.Render(row, d.window().First+i)
			if err != nil {
				return "", fmt.Errorf("error rendering row %d: %w", i, err)
			}
			m.Raw(html)
		}
		return m.String(), nil
	}

	tag, err := d.listTag()
	if err != nil {
		return "", err
	}
	class := listElementClass
	if d.ItemType == "none" {
		class += " " + noBulletsClass
	}
	itemTag := "li"
	if d.Type == Definition {
		itemTag = "dt"
	}
	itemStyle := itemClass
	if d.ItemStyleClass != "" {
		itemStyle += " " + d.ItemStyleClass
	}

	m.Start(tag).
		Attr("id", d.ClientID+"_list").
		Attr("class", class).
		Attr("type", d.ItemType)
	for i, row := range rows {
		index := d.window().First + i
		html, err := items.Render(row, index)
		if err != nil {
			return "", fmt.Errorf("error rendering row %d: %w", index, err)
		}
		m.Start(itemTag).Attr("class", itemStyle).Raw(html).End()

		if d.Type == Definition && items.Description != nil {
			desc, err := items.Description(row, index)
			if err != nil {
				return "", fmt.Errorf("error rendering description %d: %w", index, err)
			}
			m.Start("dd").Raw(desc).End()
		}
	}
	m.End()
	return m.String(), nil
}
